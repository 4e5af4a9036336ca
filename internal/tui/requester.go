package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/tudu/internal/busy"
)

// RequestHooks observe the request lifecycle. Before runs on the event
// loop right before the request body is scheduled and may return a
// command; After runs when the completion message is processed.
type RequestHooks struct {
	Before func(target busy.Target) tea.Cmd
	After  func(target busy.Target)
}

// requestDoneMsg carries a finished request back to the page.
type requestDoneMsg struct {
	Seq    uint64
	Target busy.Target
	Result interface{}
	Err    error
}

// requester runs store calls off the event loop and announces their start
// and end to subscribed hooks.
type requester struct {
	hooks []RequestHooks
	seq   uint64
}

// Subscribe adds hooks that see every subsequent request.
func (r *requester) Subscribe(h RequestHooks) {
	r.hooks = append(r.hooks, h)
}

// Do announces the request start and returns a command running op.
func (r *requester) Do(target busy.Target, op func() (interface{}, error)) tea.Cmd {
	r.seq++
	seq := r.seq

	cmds := make([]tea.Cmd, 0, len(r.hooks)+1)
	for _, h := range r.hooks {
		if h.Before != nil {
			cmds = append(cmds, h.Before(target))
		}
	}
	cmds = append(cmds, func() tea.Msg {
		res, err := op()
		return requestDoneMsg{Seq: seq, Target: target, Result: res, Err: err}
	})
	return tea.Batch(cmds...)
}

// Finish announces the request end. It must be called exactly once for
// every requestDoneMsg, before the result is applied.
func (r *requester) Finish(msg requestDoneMsg) {
	for _, h := range r.hooks {
		if h.After != nil {
			h.After(msg.Target)
		}
	}
}
