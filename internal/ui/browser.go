package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/levelmeter/internal/preset"
	"github.com/olivier-w/levelmeter/internal/util"
)

// BrowserResult holds the outcome of the preset browser.
type BrowserResult struct {
	ID        string
	Cancelled bool
}

// BrowserSelectedMsg is sent by an embedded browser when a preset is chosen.
type BrowserSelectedMsg struct {
	ID string
}

// BrowserCancelledMsg is sent by an embedded browser when the user backs out.
type BrowserCancelledMsg struct{}

type presetItem struct {
	p preset.Preset
}

func (i presetItem) Title() string { return i.p.Name }
func (i presetItem) Description() string {
	cfg := i.p.Feedback.Config()
	return i.p.Category + " · " + variantName(cfg.Variant) + " · " + util.FormatRange(cfg.MinDB, cfg.MaxDB)
}
func (i presetItem) FilterValue() string { return i.p.Name + " " + i.p.ID }

// BrowserModel is the Bubbletea model for the preset picker.
type BrowserModel struct {
	list     list.Model
	embedded bool
	result   *BrowserResult
}

// NewBrowser creates a standalone preset browser. The program quits once a
// preset is chosen; read the choice with Result.
func NewBrowser(set preset.Set, selected string) BrowserModel {
	return newBrowser(set, selected, false)
}

// NewEmbeddedBrowser creates a browser that reports its outcome as messages
// to a parent model instead of quitting.
func NewEmbeddedBrowser(set preset.Set, selected string) BrowserModel {
	return newBrowser(set, selected, true)
}

func newBrowser(set preset.Set, selected string, embedded bool) BrowserModel {
	var items []list.Item
	cursor := 0
	for i, id := range set.IDs() {
		p, err := set.Get(id)
		if err != nil {
			continue
		}
		if id == selected {
			cursor = i
		}
		items = append(items, presetItem{p: p})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "levelmeter presets"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle
	l.Select(cursor)

	return BrowserModel{list: l, embedded: embedded}
}

// Result returns the browser result after the program finishes.
func (m BrowserModel) Result() BrowserResult {
	if m.result != nil {
		return *m.result
	}
	return BrowserResult{Cancelled: true}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("levelmeter")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(presetItem)
			if !ok {
				return m, nil
			}
			m.result = &BrowserResult{ID: item.p.ID}
			if m.embedded {
				id := item.p.ID
				return m, func() tea.Msg { return BrowserSelectedMsg{ID: id} }
			}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		case "q", "esc", "ctrl+c":
			m.result = &BrowserResult{Cancelled: true}
			if m.embedded {
				return m, func() tea.Msg { return BrowserCancelledMsg{} }
			}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	return m.list.View()
}
