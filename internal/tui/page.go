package tui

import tea "github.com/charmbracelet/bubbletea"

// Page represents a top-level screen in the TUI (todos, help).
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// Mounter is implemented by pages that hold resources while they are the
// active page. Mount runs when the page becomes active and Unmount when
// the app switches away from it.
type Mounter interface {
	Mount() tea.Cmd
	Unmount()
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
	Params interface{}
}
