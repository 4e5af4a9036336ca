package tui

import (
	"errors"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/tudu/internal/focus"
	"github.com/tinytelemetry/tudu/internal/model"
)

func (p *TodoPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if p.busy.Update(msg) {
		return p.startSpinner(), nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width
		return nil, nil

	case tea.KeyMsg:
		cmd, nav := p.handleKey(msg)
		return tea.Batch(cmd, p.drain()), nav

	case requestDoneMsg:
		return p.handleDone(msg), nil

	case refreshTickMsg:
		if !p.mounted || msg.gen != p.tickGen {
			return nil, nil
		}
		return tea.Batch(p.load(p.term), p.scheduleRefresh()), nil

	case SpinnerTickMsg:
		if p.anyBusy() {
			return spinnerTick(), nil
		}
		p.spinning = false
		return nil, nil
	}

	// Cursor blink and other widget messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.addInput, cmd = p.addInput.Update(msg)
	cmds = append(cmds, cmd)
	p.searchInput, cmd = p.searchInput.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...), nil
}

func (p *TodoPage) startSpinner() tea.Cmd {
	if p.spinning || !p.anyBusy() {
		return nil
	}
	p.spinning = true
	return spinnerTick()
}

func (p *TodoPage) handleDone(msg requestDoneMsg) tea.Cmd {
	p.req.Finish(msg)

	if msg.Err != nil {
		log.Printf("tui: request on %s failed: %v", msg.Target.ID(), msg.Err)
		p.err = msg.Err
		if errors.Is(msg.Err, model.ErrNotFound) {
			// Someone else removed it; show the current list.
			return p.load(p.term)
		}
		return nil
	}

	res, ok := msg.Result.(listResult)
	if !ok {
		return nil
	}
	if msg.Seq < p.applied {
		if res.Mutated {
			// A newer read may predate this write.
			return p.load(p.term)
		}
		return nil
	}
	p.applied = msg.Seq
	p.applyList(res)
	return nil
}

// handleKey offers the key to the document listeners first. When the
// shortcut dispatcher claims it, nothing else sees the key.
func (p *TodoPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	if key.Matches(msg, p.keys.ForceQuit) {
		return tea.Quit, nil
	}

	ev := p.doc.DispatchKey(msg.String())
	if ev.DefaultPrevented() {
		p.syncInputs()
		return nil, nil
	}

	if el := p.doc.ActiveElement(); el != nil && el.IsTextEntry() {
		return p.handleFieldKey(el, msg), nil
	}
	return p.handleListKey(msg)
}

func (p *TodoPage) handleFieldKey(el *focus.Element, msg tea.KeyMsg) tea.Cmd {
	k := p.keys

	switch {
	case key.Matches(msg, k.Submit):
		if form := el.Form(); form != nil && form.Submit() {
			// Default submission reloads the page from scratch.
			p.searchInput.SetValue("")
			p.term = ""
			p.cursor = 0
			return p.load("")
		}
		return nil
	case key.Matches(msg, k.Escape):
		p.focusElement(listID)
		return nil
	case key.Matches(msg, k.NextField):
		p.cycleFocus(1)
		return nil
	case key.Matches(msg, k.PrevField):
		p.cycleFocus(-1)
		return nil
	}

	var cmd tea.Cmd
	switch el.ID() {
	case addNewID:
		p.addInput, cmd = p.addInput.Update(msg)
		return cmd
	case searchID:
		before := p.searchInput.Value()
		p.searchInput, cmd = p.searchInput.Update(msg)
		if v := p.searchInput.Value(); v != before {
			return tea.Batch(cmd, p.search(v))
		}
		return cmd
	}
	return nil
}

func (p *TodoPage) handleListKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	k := p.keys

	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit, nil
	case key.Matches(msg, k.Help):
		return nil, &PageNav{PageID: "help"}
	case key.Matches(msg, k.Escape):
		if p.term != "" || p.searchInput.Value() != "" {
			p.searchInput.SetValue("")
			return p.search(""), nil
		}
	case key.Matches(msg, k.NextField):
		p.cycleFocus(1)
	case key.Matches(msg, k.PrevField):
		p.cycleFocus(-1)
	case key.Matches(msg, k.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, k.Down):
		if p.cursor < len(p.todos)-1 {
			p.cursor++
		}
	case key.Matches(msg, k.Home):
		p.cursor = 0
	case key.Matches(msg, k.End):
		p.cursor = max(0, len(p.todos)-1)
	case key.Matches(msg, k.Toggle):
		return p.toggleSelected(), nil
	case key.Matches(msg, k.Delete):
		return p.deleteSelected(), nil
	case key.Matches(msg, k.Reload):
		return p.load(p.term), nil
	}
	return nil, nil
}
