package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/tudu/internal/model"
)

var (
	openBarStyle = lipgloss.NewStyle().Foreground(ColorOrange).Background(ColorOrange)
	doneBarStyle = lipgloss.NewStyle().Foreground(ColorGreen).Background(ColorGreen)
)

const legendWidth = 14

// renderStatsChart draws open vs done as two bars with a legend.
// Returns "" when there is nothing to draw or no room.
func renderStatsChart(st model.Stats, width, height int) string {
	if st.Total == 0 || height < 2 || width < legendWidth+5 {
		return ""
	}

	barWidth := min(8, (width-legendWidth-3)/2)
	bc := barchart.New(barWidth*2+1, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)
	bc.Push(barchart.BarData{
		Label:  "open",
		Values: []barchart.BarValue{{Name: "open", Value: float64(st.Open()), Style: openBarStyle}},
	})
	bc.Push(barchart.BarData{
		Label:  "done",
		Values: []barchart.BarValue{{Name: "done", Value: float64(st.Done), Style: doneBarStyle}},
	})
	bc.Draw()

	legend := strings.Join([]string{
		lipgloss.NewStyle().Foreground(ColorOrange).Render(fmt.Sprintf("%-5s %6d", "open", st.Open())),
		lipgloss.NewStyle().Foreground(ColorGreen).Render(fmt.Sprintf("%-5s %6d", "done", st.Done)),
		dimStyle.Render(strings.Repeat("─", 12)),
		fmt.Sprintf("%-5s %6d", "total", st.Total),
	}, "\n")

	return lipgloss.JoinHorizontal(lipgloss.Top, bc.View(), "  ", legend)
}
