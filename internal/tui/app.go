package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model that routes between pages.
//
// Keyboard and mouse input goes to the active page only. Every other
// message (window size, request completions, timers) goes to all pages,
// so background work started by a page still lands after the user has
// navigated away.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		pageMap[p.ID()] = p
		order = append(order, p.ID())
	}
	a := &App{pages: pageMap, order: order}
	if len(order) > 0 {
		a.activePage = order[0]
	}
	return a
}

// ActivePage returns the id of the page currently shown.
func (a *App) ActivePage() string { return a.activePage }

func (a *App) Init() tea.Cmd {
	p, ok := a.pages[a.activePage]
	if !ok {
		return nil
	}
	return tea.Batch(p.Init(), mount(p))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		cmd, nav := p.Update(msg)
		return a, tea.Batch(cmd, a.navigate(nav))
	}

	var cmds []tea.Cmd
	var nav *PageNav
	for _, id := range a.order {
		cmd, n := a.pages[id].Update(msg)
		cmds = append(cmds, cmd)
		if id == a.activePage {
			nav = n
		}
	}
	cmds = append(cmds, a.navigate(nav))
	return a, tea.Batch(cmds...)
}

// navigate switches to nav.PageID, unmounting the old page and mounting
// the new one. Unknown or same-page targets are ignored.
func (a *App) navigate(nav *PageNav) tea.Cmd {
	if nav == nil || nav.PageID == a.activePage {
		return nil
	}
	next, exists := a.pages[nav.PageID]
	if !exists {
		return nil
	}
	if m, ok := a.pages[a.activePage].(Mounter); ok {
		m.Unmount()
	}
	a.activePage = nav.PageID
	return tea.Batch(next.Init(), mount(next))
}

func mount(p Page) tea.Cmd {
	if m, ok := p.(Mounter); ok {
		return m.Mount()
	}
	return nil
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}
