package focus

import (
	"github.com/charmbracelet/bubbles/key"
)

// Bindings are the shortcut keys handled by the dispatcher.
type Bindings struct {
	AddNew key.Binding
	Search key.Binding
}

// DefaultBindings binds "n" to the add-new input and "f" to search.
func DefaultBindings() Bindings {
	return Bindings{
		AddNew: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new todo"),
		),
		Search: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "search"),
		),
	}
}

// Refs names the shortcut targets. They are resolved against the
// document on every keystroke, so a target that is not registered at
// that moment is simply skipped.
type Refs struct {
	AddNewID   string
	SearchID   string
	SearchForm string
}

// Handle owns the document key listener installed by Mount.
type Handle struct {
	doc      *Document
	id       ListenerID
	released bool
}

// Mount disables navigation on the search form and installs the shortcut
// key listener on doc. The returned handle must be released on unmount.
func Mount(doc *Document, refs Refs, b Bindings) *Handle {
	if f := doc.LookupForm(refs.SearchForm); f != nil {
		f.DisableNavigation()
	}

	h := &Handle{doc: doc}
	h.id = doc.AddKeyListener(func(ev *KeyEvent) {
		if el := doc.ActiveElement(); el != nil && el.IsTextEntry() {
			return
		}

		var target string
		switch {
		case key.Matches(ev, b.AddNew):
			target = refs.AddNewID
		case key.Matches(ev, b.Search):
			target = refs.SearchID
		default:
			return
		}
		if target != "" && doc.Focus(target) {
			ev.PreventDefault()
		}
	})
	return h
}

// Release removes the key listener. Calling it again is a no-op.
func (h *Handle) Release() {
	if h == nil || h.released {
		return
	}
	h.released = true
	h.doc.RemoveKeyListener(h.id)
}

// Active reports whether the listener is still installed.
func (h *Handle) Active() bool {
	return h != nil && !h.released
}
