package tui

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/tudu/internal/busy"
	"github.com/tinytelemetry/tudu/internal/model"
)

// memStore is an in-memory model.TodoStore.
type memStore struct {
	mu    sync.Mutex
	next  int64
	todos map[string]model.Todo
	fail  error

	statsCalls int
}

func newMemStore(titles ...string) *memStore {
	s := &memStore{todos: make(map[string]model.Todo)}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range titles {
		s.Add(title, false, base.Add(time.Duration(i)*time.Minute))
	}
	return s
}

func (s *memStore) sorted(keep func(model.Todo) bool) []model.Todo {
	out := make([]model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out
}

func (s *memStore) All() ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	return s.sorted(func(model.Todo) bool { return true }), nil
}

func (s *memStore) Find(term string) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	term = strings.ToLower(term)
	return s.sorted(func(t model.Todo) bool {
		for _, w := range strings.Fields(strings.ToLower(t.Title)) {
			if strings.HasPrefix(w, term) {
				return true
			}
		}
		return false
	}), nil
}

func (s *memStore) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos), nil
}

func (s *memStore) Stats() (model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsCalls++
	return model.StatsOf(s.sorted(func(model.Todo) bool { return true })), nil
}

func (s *memStore) Add(title string, done bool, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	title = strings.TrimSpace(title)
	if title == "" {
		return "", model.ErrEmptyTitle
	}
	s.next++
	id := fmt.Sprintf("%x", s.next)
	s.todos[id] = model.Todo{ID: id, Title: title, Done: done, Created: now}
	return id, nil
}

func (s *memStore) Toggle(id string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return model.Todo{}, model.ErrNotFound
	}
	t.Done = !t.Done
	s.todos[id] = t
	return t, nil
}

func (s *memStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.todos, id)
	return nil
}

// manualClock records busy timers so tests decide when they fire.
type manualClock struct {
	delays []time.Duration
	fns    []func(time.Time) tea.Msg
}

func (c *manualClock) schedule(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	c.delays = append(c.delays, d)
	c.fns = append(c.fns, fn)
	return nil
}

// fireAll delivers every recorded expiry to p, oldest first.
func (c *manualClock) fireAll(p *TodoPage) {
	fns := c.fns
	c.fns = nil
	for _, fn := range fns {
		p.Update(fn(time.Time{}))
	}
}

func newTestPage(t *testing.T, store model.TodoStore) (*TodoPage, *manualClock) {
	t.Helper()
	clk := &manualClock{}
	p := NewTodoPage(store, TodoPageConfig{
		BusyOptions: []busy.Option{busy.WithScheduler(clk.schedule)},
	})
	settle(t, p, p.Mount())
	return p, clk
}

// collect runs cmd and any batched commands, returning their messages.
// Commands that block (cursor blink, ticks) are abandoned after a short wait.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func doneMsgs(msgs []tea.Msg) []requestDoneMsg {
	var out []requestDoneMsg
	for _, m := range msgs {
		if d, ok := m.(requestDoneMsg); ok {
			out = append(out, d)
		}
	}
	return out
}

// settle runs cmd and feeds request completions back into p until no
// more requests are produced.
func settle(t *testing.T, p *TodoPage, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 20 {
			t.Fatal("requests did not settle")
		}
		var next []tea.Cmd
		for _, d := range doneMsgs(collect(cmd)) {
			c, _ := p.Update(d)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one by one and settles the resulting requests.
func press(t *testing.T, p *TodoPage, keys ...string) *PageNav {
	t.Helper()
	var nav *PageNav
	for _, k := range keys {
		cmd, n := p.Update(keyMsg(k))
		if n != nil {
			nav = n
		}
		settle(t, p, cmd)
	}
	return nav
}

func typeText(t *testing.T, p *TodoPage, s string) {
	t.Helper()
	for _, r := range s {
		press(t, p, string(r))
	}
}

func activeID(p *TodoPage) string {
	if el := p.doc.ActiveElement(); el != nil {
		return el.ID()
	}
	return ""
}

func shownTitles(p *TodoPage) []string {
	out := make([]string, len(p.todos))
	for i, t := range p.todos {
		out[i] = t.Title
	}
	return out
}
