package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/levelmeter/internal/export"
	"github.com/olivier-w/levelmeter/internal/feedback"
	"github.com/olivier-w/levelmeter/internal/meter"
	"github.com/olivier-w/levelmeter/internal/preset"
	"github.com/olivier-w/levelmeter/internal/preview"
)

// ControlID identifies the preview in ballistics keys. Each preset gets its
// own meter instance under it.
const ControlID = "preview"

const (
	positionStep = 5
	opacityStep  = 5
	snapshotZoom = 4
)

// Model is the Bubbletea model for the interactive meter preview.
type Model struct {
	renderer *feedback.Renderer
	presets  preset.Set
	preset   preset.Preset
	opts     feedback.Options

	input  textinput.Model
	bar    progress.Model
	needle needle
	screen *preview.Renderer

	last     feedback.Result
	frame    string
	editing  bool
	width    int
	quitting bool

	saveMsg     string    // transient status message
	saveMsgTime time.Time // when saveMsg was set
	saving      bool
}

// New creates a preview of the preset id taken from set.
func New(r *feedback.Renderer, set preset.Set, id string) (Model, error) {
	p, err := set.Get(id)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "-12 dBFS"
	ti.CharLimit = 256
	ti.Width = 40

	bar := progress.New(
		progress.WithScaledGradient("#50B45A", "#D23C3C"),
		progress.WithoutPercentage(),
	)
	bar.Width = 40

	m := Model{
		renderer: r,
		presets:  set,
		input:    ti,
		bar:      bar,
		needle:   newNeedle(int(time.Second/frameInterval), 6, 1),
		screen:   preview.NewRenderer(p.Background()),
	}
	m.selectPreset(p)
	return m, nil
}

// Options returns the options currently applied to the meter.
func (m Model) Options() feedback.Options { return m.opts }

// Preset returns the preset being previewed.
func (m Model) Preset() preset.Preset { return m.preset }

// Last returns the most recent render.
func (m Model) Last() feedback.Result { return m.last }

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.SetWindowTitle(windowTitle(m.preset.Name)))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		if isQuit(msg) {
			m.quitting = true
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		return m.updateControls(msg)

	case tickMsg:
		m.refresh()
		if m.saveMsg != "" && time.Since(m.saveMsgTime) > 5*time.Second {
			m.saveMsg = ""
		}
		return m, tickCmd()

	case fileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.saveMsg = fmt.Sprintf("Save failed: %v", msg.err)
		} else {
			m.saveMsg = fmt.Sprintf("Saved to %s", msg.path)
		}
		m.saveMsgTime = time.Now()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-16, 20), 60)
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case "enter":
		m.opts.Value = strings.TrimSpace(m.input.Value())
		m.editing = false
		m.input.Blur()
		m.refresh()
		return m, nil
	case "esc":
		m.input.SetValue(valueText(m.opts.Value))
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateControls(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	o := m.opts
	switch msg.String() {
	case "e", "enter", "/":
		m.editing = true
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "tab":
		p, err := m.presets.Get(m.presets.Next(m.preset.ID))
		if err != nil {
			return m, nil
		}
		m.selectPreset(p)
		return m, tea.SetWindowTitle(windowTitle(p.Name))
	case "r":
		m.selectPreset(m.preset)
		return m, nil
	case "v":
		o.Variant = meter.ParseVariant(o.Variant).Next().String()
	case "s":
		o.Scale = meter.ParseScale(o.Scale).Next().String()
	case "left", "h":
		o.Position -= positionStep
	case "right", "l":
		o.Position += positionStep
	case "+", "=":
		o.Thickness++
	case "-", "_":
		o.Thickness--
	case "up", "k":
		o.Opacity += opacityStep
	case "down", "j":
		o.Opacity -= opacityStep
	case "p":
		if m.saving || m.last.Image == nil {
			return m, nil
		}
		m.saving = true
		m.saveMsg = "Saving..."
		m.saveMsgTime = time.Now()
		return m, saveSnapshotCmd(m.last.Image, m.preset)
	default:
		return m, nil
	}
	m.setOptions(o)
	m.refresh()
	return m, nil
}

// selectPreset loads p's options and re-renders.
func (m *Model) selectPreset(p preset.Preset) {
	m.preset = p
	m.setOptions(p.Feedback)
	m.input.SetValue(valueText(p.Feedback.Value))
	m.screen.SetBackground(p.Background())
	m.refresh()
	m.needle.snap(m.last.Config.Mapper().Position(m.last.State.Value))
}

// setOptions stores o with every setting pulled back into range, so key
// repeats past a bound do not accumulate.
func (m *Model) setOptions(o feedback.Options) {
	cfg := o.Config()
	o.Variant = cfg.Variant.String()
	o.Scale = cfg.Scale.String()
	o.MinDB, o.MaxDB = cfg.MinDB, cfg.MaxDB
	o.Gamma = cfg.Gamma
	o.Position = float64(cfg.Position)
	o.Thickness = float64(cfg.Thickness)
	o.Opacity = float64(cfg.Opacity)
	m.opts = o
}

func (m *Model) refresh() {
	m.last = m.renderer.Render(context.Background(), feedback.Request{
		ControlID:  ControlID,
		FeedbackID: m.preset.ID,
		Options:    m.opts,
	})
	cols, rows := m.screen.Size(m.last.Image)
	m.frame = m.screen.Render(m.last.Image, cols, rows)
	m.needle.step(m.last.Config.Mapper().Position(m.last.State.Value))
}

func saveSnapshotCmd(buf *meter.PixelBuffer, p preset.Preset) tea.Cmd {
	path := fmt.Sprintf("%s-%s.png", p.ID, time.Now().Format("20060102-150405"))
	bg := p.Background()
	return func() tea.Msg {
		return fileSavedMsg{path: path, err: export.PNG(path, buf, bg, snapshotZoom)}
	}
}

func valueText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func windowTitle(name string) string {
	return "levelmeter · " + name
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(buttonStyle(m.preset).Render(m.preset.Name))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render(m.preset.ID))
	b.WriteString("\n\n")

	b.WriteString(indentBlock(m.frame, "  "))
	b.WriteString("\n\n  ")
	b.WriteString(renderReadout(m.last))
	b.WriteString("\n  ")
	b.WriteString(m.bar.ViewAs(min(max(m.needle.pos, 0), 1)))
	b.WriteString("\n  ")
	b.WriteString(statusStyle.Render(renderSettings(m.last.Config)))
	b.WriteString("\n\n  ")
	b.WriteString(labelStyle.Render("value "))
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if !m.last.Parsed {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render("not a level, showing silence"))
		b.WriteString("\n")
	}
	if m.saveMsg != "" {
		b.WriteString("  ")
		b.WriteString(statusStyle.Render(m.saveMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(helpStyle.Render(helpText(m.editing)))
	b.WriteString("\n")
	return b.String()
}
