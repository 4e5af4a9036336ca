package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// matchIndexes returns the byte offsets in title that fuzzy-match term.
func matchIndexes(title, term string) map[int]bool {
	term = strings.TrimSpace(term)
	if term == "" || title == "" {
		return nil
	}
	matches := fuzzy.Find(term, []string{title})
	if len(matches) == 0 {
		return nil
	}
	idx := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, i := range matches[0].MatchedIndexes {
		idx[i] = true
	}
	return idx
}

// highlight renders title with base, emphasising the characters that
// match term. Consecutive characters share one styled run.
func highlight(title, term string, base lipgloss.Style) string {
	idx := matchIndexes(title, term)
	if len(idx) == 0 {
		return base.Render(title)
	}

	hit := matchStyle.Inherit(base)
	var b, run strings.Builder
	inMatch := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if inMatch {
			b.WriteString(hit.Render(run.String()))
		} else {
			b.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range title {
		if idx[i] != inMatch {
			flush()
			inMatch = idx[i]
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}
