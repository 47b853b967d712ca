package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	args := os.Args[1:]

	var err error
	if len(args) > 0 && args[0] == "render" {
		err = runRender(args[1:], os.Stdout, os.Stderr)
	} else {
		err = runPreview(args)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runPreview starts the interactive preview. With a preset id it opens that
// preset directly, otherwise it starts in the preset browser.
func runPreview(args []string) error {
	fs := flag.NewFlagSet("levelmeter", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: levelmeter [-presets file] [preset-id]\n       levelmeter render [flags] [--] value...\n\n")
		fs.PrintDefaults()
	}
	presetsPath := fs.String("presets", "", "presets `file` merged over the built-ins (default: user config presets.yml)")
	logPath := fs.String("log", "", "write render warnings to `file`")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// The alt screen owns the terminal, so warnings go to a file or nowhere.
	logger := log.New(io.Discard, "", 0)
	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "levelmeter")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	var model tea.Model
	if fs.NArg() == 0 {
		model = newStartupModel(*presetsPath, logger)
	} else {
		set, err := loadPresets(*presetsPath)
		if err != nil {
			return err
		}
		m, err := buildPreviewModel(set, fs.Arg(0), logger)
		if err != nil {
			return err
		}
		model = m
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
