package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/tudu/internal/busy"
	"github.com/tinytelemetry/tudu/internal/focus"
	"github.com/tinytelemetry/tudu/internal/model"
)

// Element and form ids on the todo page.
const (
	addNewID     = "input-add-new"
	searchID     = "input-search"
	listID       = "todo-list"
	formAddID    = "form-add"
	formSearchID = "form-search"
	rowPrefix    = "todo-"
)

// fieldOrder is the tab order.
var fieldOrder = []string{addNewID, searchID, listID}

func rowElementID(todoID string) string { return rowPrefix + todoID }

// listResult is what every todo request resolves to: the list as it
// looks after the request, for the term it was made with.
type listResult struct {
	Term    string
	Todos   []model.Todo
	Stats   model.Stats
	Mutated bool
}

type refreshTickMsg struct{ gen int }

// TodoPageConfig configures a TodoPage.
type TodoPageConfig struct {
	// RefreshInterval re-runs the current list request periodically.
	// Zero disables refresh.
	RefreshInterval time.Duration
	// BusyDelay is the busy indicator threshold; zero means busy.DefaultDelay.
	BusyDelay time.Duration
	// BusyOptions are passed to busy.New.
	BusyOptions []busy.Option
}

// TodoPage lists todos, adds new ones and searches them. It wires the
// document shortcuts ("n", "f") and the delayed busy indicator to the
// store requests it makes.
type TodoPage struct {
	store     model.TodoStore
	keys      KeyMap
	shortcuts focus.Bindings
	help      help.Model
	interval  time.Duration
	now       func() time.Time

	doc    *focus.Document
	handle *focus.Handle
	busy   *busy.Controller
	req    requester

	addInput    textinput.Model
	searchInput textinput.Model

	term     string // term of the latest list request
	listTerm string // term the shown list was fetched with
	todos    []model.Todo
	stats    model.Stats
	cursor   int
	applied  uint64
	err      error
	loaded   bool
	queued   []tea.Cmd
	tickGen  int
	spinning bool
	mounted  bool
	width    int
	height   int
}

// NewTodoPage creates the todo page over store.
func NewTodoPage(store model.TodoStore, cfg TodoPageConfig) *TodoPage {
	addInput := textinput.New()
	addInput.Placeholder = "What needs doing?"
	addInput.CharLimit = 200
	addInput.Prompt = ""

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100
	searchInput.Prompt = ""

	p := &TodoPage{
		store:       store,
		keys:        DefaultKeyMap(),
		shortcuts:   focus.DefaultBindings(),
		help:        help.New(),
		interval:    cfg.RefreshInterval,
		now:         time.Now,
		doc:         focus.NewDocument(),
		busy:        busy.New(cfg.BusyDelay, cfg.BusyOptions...),
		addInput:    addInput,
		searchInput: searchInput,
	}

	addForm := focus.NewForm(formAddID, func() { p.queue(p.submitAdd()) })
	// New todos are added in place; only the search form is left to the
	// shortcut dispatcher to lock down.
	addForm.DisableNavigation()
	searchForm := focus.NewForm(formSearchID, func() { p.queue(p.search(p.searchInput.Value())) })
	p.doc.AddForm(addForm)
	p.doc.AddForm(searchForm)

	add := focus.NewElement(addNewID, focus.KindInput, "text")
	add.SetForm(addForm)
	search := focus.NewElement(searchID, focus.KindInput, "search")
	search.SetForm(searchForm)
	p.doc.Register(add)
	p.doc.Register(search)
	p.doc.Register(focus.NewElement(listID, focus.KindList, ""))

	p.req.Subscribe(RequestHooks{
		Before: p.busy.BeforeRequest,
		After:  p.busy.AfterRequest,
	})
	return p
}

func (p *TodoPage) ID() string { return "todos" }

func (p *TodoPage) Init() tea.Cmd { return nil }

// Mount installs the shortcut listener, loads the list and starts the
// refresh timer.
func (p *TodoPage) Mount() tea.Cmd {
	p.handle = focus.Mount(p.doc, focus.Refs{
		AddNewID:   addNewID,
		SearchID:   searchID,
		SearchForm: formSearchID,
	}, p.shortcuts)
	p.mounted = true
	if p.doc.ActiveElement() == nil {
		p.doc.Focus(listID)
	}
	p.syncInputs()

	p.tickGen++
	return tea.Batch(p.load(p.term), p.scheduleRefresh(), textinput.Blink)
}

// Unmount releases the shortcut listener. Pending refresh ticks are
// dropped when they arrive.
func (p *TodoPage) Unmount() {
	p.handle.Release()
	p.handle = nil
	p.mounted = false
}

func (p *TodoPage) queue(cmd tea.Cmd) {
	if cmd != nil {
		p.queued = append(p.queued, cmd)
	}
}

func (p *TodoPage) drain() tea.Cmd {
	cmds := p.queued
	p.queued = nil
	return tea.Batch(cmds...)
}

func (p *TodoPage) scheduleRefresh() tea.Cmd {
	if p.interval <= 0 {
		return nil
	}
	gen := p.tickGen
	return tea.Tick(p.interval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// fetch reads the list for term along with overall stats.
func fetch(store model.TodoReader, term string) (listResult, error) {
	var (
		todos []model.Todo
		err   error
	)
	if term == "" {
		todos, err = store.All()
	} else {
		todos, err = store.Find(term)
	}
	if err != nil {
		return listResult{}, err
	}
	if term == "" {
		// The full list already holds everything the header needs.
		return listResult{Term: term, Todos: todos, Stats: model.StatsOf(todos)}, nil
	}
	st, err := store.Stats()
	if err != nil {
		return listResult{}, err
	}
	return listResult{Term: term, Todos: todos, Stats: st}, nil
}

// load requests the list for term, marking the list element busy.
func (p *TodoPage) load(term string) tea.Cmd {
	store := p.store
	return p.req.Do(p.doc.Lookup(listID), func() (interface{}, error) {
		return fetch(store, term)
	})
}

// search requests the list for a new term, marking the search field busy.
func (p *TodoPage) search(term string) tea.Cmd {
	term = strings.TrimSpace(term)
	p.term = term
	store := p.store
	return p.req.Do(p.doc.Lookup(searchID), func() (interface{}, error) {
		return fetch(store, term)
	})
}

// mutate runs op and then re-reads the current list.
func (p *TodoPage) mutate(target *focus.Element, op func(model.TodoStore) error) tea.Cmd {
	store := p.store
	term := p.term
	return p.req.Do(target, func() (interface{}, error) {
		if err := op(store); err != nil {
			return nil, err
		}
		res, err := fetch(store, term)
		res.Mutated = true
		return res, err
	})
}

func (p *TodoPage) submitAdd() tea.Cmd {
	title := strings.TrimSpace(p.addInput.Value())
	if title == "" {
		p.err = model.ErrEmptyTitle
		return nil
	}
	p.addInput.SetValue("")
	now := p.now()
	return p.mutate(p.doc.Lookup(addNewID), func(s model.TodoStore) error {
		_, err := s.Add(title, false, now)
		return err
	})
}

func (p *TodoPage) selected() (model.Todo, bool) {
	if p.cursor < 0 || p.cursor >= len(p.todos) {
		return model.Todo{}, false
	}
	return p.todos[p.cursor], true
}

func (p *TodoPage) toggleSelected() tea.Cmd {
	t, ok := p.selected()
	if !ok {
		return nil
	}
	return p.mutate(p.doc.Lookup(rowElementID(t.ID)), func(s model.TodoStore) error {
		_, err := s.Toggle(t.ID)
		return err
	})
}

func (p *TodoPage) deleteSelected() tea.Cmd {
	t, ok := p.selected()
	if !ok {
		return nil
	}
	return p.mutate(p.doc.Lookup(rowElementID(t.ID)), func(s model.TodoStore) error {
		return s.Remove(t.ID)
	})
}

// applyList shows res and keeps one checkbox element per row, reusing
// existing elements so busy markers survive a reload.
func (p *TodoPage) applyList(res listResult) {
	keep := make(map[string]bool, len(res.Todos))
	for _, t := range res.Todos {
		id := rowElementID(t.ID)
		keep[id] = true
		if p.doc.Lookup(id) == nil {
			p.doc.Register(focus.NewElement(id, focus.KindCheckbox, ""))
		}
	}
	for _, t := range p.todos {
		if id := rowElementID(t.ID); !keep[id] {
			p.doc.Unregister(id)
		}
	}

	p.todos = res.Todos
	p.stats = res.Stats
	p.listTerm = res.Term
	p.loaded = true
	p.err = nil
	if p.cursor >= len(p.todos) {
		p.cursor = len(p.todos) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// anyBusy reports whether any element on the page shows the marker.
func (p *TodoPage) anyBusy() bool {
	for _, id := range fieldOrder {
		if p.busy.IsBusy(id) {
			return true
		}
	}
	for _, t := range p.todos {
		if p.busy.IsBusy(rowElementID(t.ID)) {
			return true
		}
	}
	return false
}

func (p *TodoPage) focusElement(id string) {
	p.doc.Focus(id)
	p.syncInputs()
}

// syncInputs mirrors document focus onto the text input widgets.
func (p *TodoPage) syncInputs() {
	active := ""
	if el := p.doc.ActiveElement(); el != nil {
		active = el.ID()
	}
	if active == addNewID {
		p.addInput.Focus()
	} else {
		p.addInput.Blur()
	}
	if active == searchID {
		p.searchInput.Focus()
	} else {
		p.searchInput.Blur()
	}
}

func (p *TodoPage) cycleFocus(step int) {
	cur := 0
	if el := p.doc.ActiveElement(); el != nil {
		for i, id := range fieldOrder {
			if id == el.ID() {
				cur = i
				break
			}
		}
	}
	next := (cur + step + len(fieldOrder)) % len(fieldOrder)
	p.focusElement(fieldOrder[next])
}
