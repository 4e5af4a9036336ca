package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/tudu/internal/busy"
)

const chartHeight = 4

func (p *TodoPage) View(width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	header := p.renderHeader(width)
	fields := p.renderFields(width)
	chart := renderStatsChart(p.stats, width, chartHeight)
	footer := p.renderFooter(width)

	used := lipgloss.Height(header) + lipgloss.Height(fields) + lipgloss.Height(footer)
	if chart != "" {
		used += lipgloss.Height(chart) + 1
	}
	list := p.renderList(width, max(1, height-used))

	parts := []string{header, fields}
	if chart != "" {
		parts = append(parts, chart, "")
	}
	parts = append(parts, list, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (p *TodoPage) renderHeader(width int) string {
	summary := fmt.Sprintf("%d of %d done (%d%%)", p.stats.Done, p.stats.Total, p.stats.PercentDone())
	left := titleStyle.Render("tudu") + " " + summary
	right := busyGlyph(p.busy.IsBusy(listID))
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (p *TodoPage) renderField(label, id string, in textinput.Model, width int) string {
	style := fieldStyle
	if el := p.doc.ActiveElement(); el != nil && el.ID() == id {
		style = focusedFieldStyle
	}
	inner := max(10, width-4)
	in.Width = inner - lipgloss.Width(label) - 3
	content := dimStyle.Render(label) + " " + in.View()
	content += strings.Repeat(" ", max(0, inner-lipgloss.Width(content)-1)) + busyGlyph(p.busy.IsBusy(id))
	return style.Width(inner).Render(content)
}

func (p *TodoPage) renderFields(width int) string {
	half := width / 2
	add := p.renderField("new", addNewID, p.addInput, half)
	search := p.renderField("find", searchID, p.searchInput, width-half)
	return lipgloss.JoinHorizontal(lipgloss.Top, add, search)
}

func (p *TodoPage) renderList(width, height int) string {
	if !p.loaded {
		return renderLoadingPlaceholder(width, height)
	}
	if len(p.todos) == 0 {
		msg := "Nothing to do. Press n to add a todo."
		if p.listTerm != "" {
			msg = fmt.Sprintf("No todos match %q.", p.listTerm)
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dimStyle.Render(msg))
	}

	listFocused := false
	if el := p.doc.ActiveElement(); el != nil && el.ID() == listID {
		listFocused = true
	}

	// Keep the cursor inside the visible window.
	start := 0
	if p.cursor >= height {
		start = p.cursor - height + 1
	}
	end := min(len(p.todos), start+height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := p.todos[i]
		pointer := "  "
		if i == p.cursor {
			pointer = "> "
			if listFocused {
				pointer = cursorRow.Render("> ")
			}
		}
		check := "[ ]"
		base := lipgloss.NewStyle()
		if t.Done {
			check = "[x]"
			base = doneStyle
		}
		rowBusy := false
		if el := p.doc.Lookup(rowElementID(t.ID)); el != nil {
			rowBusy = el.HasClass(busy.MarkerClass)
		}
		line := pointer + busyGlyph(rowBusy) + " " + check + " " + highlight(t.Title, p.listTerm, base)
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (p *TodoPage) renderFooter(width int) string {
	var line string
	if p.err != nil {
		line = errorStyle.Render("error: " + p.err.Error())
	} else {
		line = p.help.ShortHelpView([]key.Binding{
			p.shortcuts.AddNew, p.shortcuts.Search,
			p.keys.Toggle, p.keys.Delete, p.keys.Help, p.keys.Quit,
		})
	}
	return statusStyle.Width(width).Render(line)
}
