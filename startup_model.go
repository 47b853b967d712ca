package main

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/levelmeter/internal/preset"
	"github.com/olivier-w/levelmeter/internal/ui"
)

type startupPhase uint8

const (
	phaseLoading startupPhase = iota
	phaseBrowse
)

type presetsLoadedMsg struct {
	set preset.Set
	err error
}

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

type startupModel struct {
	presetsPath string
	logger      *log.Logger
	set         preset.Set
	browser     ui.BrowserModel
	phase       startupPhase
	errMsg      string
	width       int
	height      int
	spinner     spinner.Model
}

func newStartupModel(presetsPath string, logger *log.Logger) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return startupModel{
		presetsPath: presetsPath,
		logger:      logger,
		phase:       phaseLoading,
		spinner:     s,
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadPresetsCmd(m.presetsPath), tea.SetWindowTitle("levelmeter"))
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.phase == phaseBrowse {
			return m.updateBrowser(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case presetsLoadedMsg:
		m.set = msg.set
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		m.phase = phaseBrowse
		m.browser = ui.NewEmbeddedBrowser(m.set, preset.DefaultID)
		return m, tea.Batch(m.browser.Init(), m.replaySize())

	case ui.BrowserCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.BrowserSelectedMsg:
		return m, openPresetCmd(m.set, msg.ID, m.logger)

	case startupResolvedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		return msg.model, tea.Batch(msg.model.Init(), m.replaySize())

	case tea.KeyMsg:
		if m.phase == phaseLoading && startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phaseBrowse {
		return m.updateBrowser(msg)
	}
	return m, nil
}

func (m startupModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.browser.Update(msg)
	if browser, ok := model.(ui.BrowserModel); ok {
		m.browser = browser
	}
	return m, cmd
}

// replaySize re-sends the last window size to a freshly created model.
func (m startupModel) replaySize() tea.Cmd {
	if m.width == 0 && m.height == 0 {
		return nil
	}
	w, h := m.width, m.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

func (m startupModel) View() string {
	if m.phase == phaseLoading {
		return "\n  " + startupHeaderStyle.Render("levelmeter") + "\n\n  " +
			m.spinner.View() + " " + startupStatusStyle.Render("Loading presets...") + "\n\n  " +
			startupHelpStyle.Render("q quit") + "\n"
	}
	if m.errMsg == "" {
		return m.browser.View()
	}
	return "\n  " + startupHeaderStyle.Render("levelmeter") + "\n\n  " +
		startupErrorStyle.Render(m.errMsg) + "\n\n" + indentBlock(m.browser.View(), "  ")
}

func loadPresetsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		set, err := loadPresets(path)
		return presetsLoadedMsg{set: set, err: err}
	}
}

func openPresetCmd(set preset.Set, id string, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		model, err := buildPreviewModel(set, id, logger)
		return startupResolvedMsg{model: model, err: err}
	}
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

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
