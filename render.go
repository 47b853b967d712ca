package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/olivier-w/levelmeter/internal/ballistics"
	"github.com/olivier-w/levelmeter/internal/export"
	"github.com/olivier-w/levelmeter/internal/feedback"
	"github.com/olivier-w/levelmeter/internal/preset"
	"github.com/olivier-w/levelmeter/internal/preview"
)

// renderInterval is the simulated time between consecutive values, so a
// sequence of values shows attack, release and peak hold.
const renderInterval = 100 * time.Millisecond

var errNoValues = errors.New("no level values given")

// runRender feeds each value through one meter instance and writes the
// final frame.
func runRender(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: levelmeter render [flags] [--] value...\n\nPut -- before negative values so they are not read as flags.\n\n")
		fs.PrintDefaults()
	}
	id := fs.String("preset", preset.DefaultID, "preset `id`")
	out := fs.String("o", "", "output PNG `file`, or - for a terminal preview (default: <preset>.png)")
	scale := fs.Int("scale", 1, fmt.Sprintf("integer upscaling factor, 1..%d", export.MaxScale))
	presetsPath := fs.String("presets", "", "presets `file` merged over the built-ins")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errNoValues
	}

	set, err := loadPresets(*presetsPath)
	if err != nil {
		return err
	}
	p, err := set.Get(*id)
	if err != nil {
		return err
	}

	start := time.Now()
	step := 0
	engine := ballistics.NewEngine(ballistics.NewStore(), ballistics.WithClock(func() time.Time {
		return start.Add(time.Duration(step) * renderInterval)
	}))
	r := feedback.NewRenderer(engine, feedback.WithLogger(log.New(stderr, "levelmeter: ", 0)))

	var res feedback.Result
	for i, v := range fs.Args() {
		step = i
		opts := p.Feedback
		opts.Value = v
		res = r.Render(context.Background(), feedback.Request{
			ControlID:  "render",
			FeedbackID: p.ID,
			Options:    opts,
		})
	}

	switch *out {
	case "-":
		screen := preview.NewRenderer(p.Background())
		cols, rows := screen.Size(res.Image)
		_, err := fmt.Fprintln(stdout, screen.Render(res.Image, cols, rows))
		return err
	case "":
		*out = p.ID + ".png"
	}
	if err := export.PNG(*out, res.Image, p.Background(), *scale); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: level %.1f dB, peak %.1f dB -> %s\n", p.ID, res.State.Value, res.State.Peak, *out)
	return nil
}
