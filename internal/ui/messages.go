package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval is how often the preview re-renders so release and peak
// decay stay visible while the level value is unchanged.
const frameInterval = 50 * time.Millisecond

type tickMsg time.Time
type fileSavedMsg struct {
	path string
	err  error
}

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
