package main

import (
	"log"

	"github.com/olivier-w/levelmeter/internal/ballistics"
	"github.com/olivier-w/levelmeter/internal/feedback"
	"github.com/olivier-w/levelmeter/internal/preset"
	"github.com/olivier-w/levelmeter/internal/ui"
)

// loadPresets returns the built-in presets merged with the file at path, or
// with the user presets file when path is empty. On error the returned set
// still holds the built-ins.
func loadPresets(path string) (preset.Set, error) {
	if path != "" {
		return preset.Load(path)
	}
	set, _, err := preset.LoadUser()
	return set, err
}

func buildPreviewModel(set preset.Set, id string, logger *log.Logger) (ui.Model, error) {
	engine := ballistics.NewEngine(ballistics.NewStore())
	r := feedback.NewRenderer(engine, feedback.WithLogger(logger))
	return ui.New(r, set, id)
}
