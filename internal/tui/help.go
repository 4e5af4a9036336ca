package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/tudu/internal/focus"
)

// HelpPage lists every key binding.
type HelpPage struct {
	keys      KeyMap
	shortcuts focus.Bindings
	help      help.Model
}

// NewHelpPage creates the help page.
func NewHelpPage() *HelpPage {
	h := help.New()
	h.ShowAll = true
	return &HelpPage{keys: DefaultKeyMap(), shortcuts: focus.DefaultBindings(), help: h}
}

func (h *HelpPage) ID() string { return "help" }

func (h *HelpPage) Init() tea.Cmd { return nil }

func (h *HelpPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches(km, h.keys.ForceQuit):
		return tea.Quit, nil
	case key.Matches(km, h.keys.Help, h.keys.Escape, h.keys.Quit):
		return nil, &PageNav{PageID: "todos"}
	}
	return nil, nil
}

func (h *HelpPage) groups() [][]key.Binding {
	k := h.keys
	return [][]key.Binding{
		{h.shortcuts.AddNew, h.shortcuts.Search, k.Submit, k.Escape, k.NextField, k.PrevField},
		{k.Up, k.Down, k.Home, k.End},
		{k.Toggle, k.Delete, k.Reload},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

func (h *HelpPage) View(width, height int) string {
	header := lipgloss.NewStyle().
		Foreground(ColorBlue).
		Bold(true).
		Render("Keys")

	note := dimStyle.Render("n and f work anywhere except while typing in a field.")

	body := lipgloss.JoinVertical(lipgloss.Left,
		header, "",
		h.help.FullHelpView(h.groups()), "",
		note, "",
		dimStyle.Render("?/esc: back"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(1, 2).
		Render(body)

	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
