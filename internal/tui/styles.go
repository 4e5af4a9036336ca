package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorBlue   = lipgloss.Color("39")
	ColorGreen  = lipgloss.Color("42")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("255")
	ColorNavy   = lipgloss.Color("17")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorNavy).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorNavy)

	errorStyle = lipgloss.NewStyle().Foreground(ColorRed)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorGray)
	doneStyle  = lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)
	matchStyle = lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
	cursorRow  = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	focusedFieldStyle = fieldStyle.
				BorderForeground(ColorBlue)
)
