package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(editing bool) string {
	if editing {
		return "enter apply  esc cancel  ctrl+c quit"
	}
	return "e edit  tab preset  v variant  s scale  ←/→ position  +/- thickness  ↑/↓ opacity  r reset  p png  q quit"
}
