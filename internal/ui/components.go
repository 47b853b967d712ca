package ui

import (
	"fmt"
	"strings"

	"github.com/olivier-w/levelmeter/internal/feedback"
	"github.com/olivier-w/levelmeter/internal/meter"
	"github.com/olivier-w/levelmeter/internal/util"
)

func renderReadout(res feedback.Result) string {
	level := zoneStyle(res.State.Value).Render(util.FormatDB(res.State.Value))
	peak := zoneStyle(res.State.Peak).Render(util.FormatDB(res.State.Peak))
	return labelStyle.Render("level ") + level + labelStyle.Render("   peak ") + peak
}

func renderSettings(cfg meter.Config) string {
	parts := []string{
		variantName(cfg.Variant),
		cfg.Scale.String(),
		fmt.Sprintf("γ %g", cfg.Gamma),
		util.FormatRange(cfg.MinDB, cfg.MaxDB),
		fmt.Sprintf("pos %d", cfg.Position),
		fmt.Sprintf("%dpx", cfg.Thickness),
		fmt.Sprintf("%d%%", cfg.Opacity),
	}
	return strings.Join(parts, " · ")
}

func variantName(v meter.Variant) string {
	if v == meter.Horizontal {
		return "horizontal"
	}
	return "vertical"
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
