package focus

import "sort"

// Kind classifies a focusable element.
type Kind int

const (
	KindOther Kind = iota
	KindInput
	KindTextArea
	KindList
	KindCheckbox
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTextArea:
		return "textarea"
	case KindList:
		return "list"
	case KindCheckbox:
		return "checkbox"
	default:
		return "other"
	}
}

// Element is a focusable widget registered in a Document.
type Element struct {
	id      string
	kind    Kind
	typ     string
	form    *Form
	classes map[string]struct{}
}

// NewElement creates an element. typ is the semantic input type ("text",
// "search", "password", ...) and only matters for KindInput.
func NewElement(id string, kind Kind, typ string) *Element {
	return &Element{id: id, kind: kind, typ: typ, classes: make(map[string]struct{})}
}

func (e *Element) ID() string { return e.id }

// Form returns the form the element belongs to, or nil.
func (e *Element) Form() *Form { return e.form }

// SetForm attaches the element to f.
func (e *Element) SetForm(f *Form) { e.form = f }

// IsTextEntry reports whether keystrokes on this element are plain text
// input. That is wider than type "text" alone: search inputs, untyped
// inputs (which default to text) and every textarea count too, so "n" and
// "f" can be typed into the search field and into multi-line notes.
func (e *Element) IsTextEntry() bool {
	switch e.kind {
	case KindTextArea:
		return true
	case KindInput:
		return e.typ == "" || e.typ == "text" || e.typ == "search"
	default:
		return false
	}
}

func (e *Element) AddClass(name string)    { e.classes[name] = struct{}{} }
func (e *Element) RemoveClass(name string) { delete(e.classes, name) }

func (e *Element) HasClass(name string) bool {
	_, ok := e.classes[name]
	return ok
}

// Classes returns the element's classes in sorted order.
func (e *Element) Classes() []string {
	out := make([]string, 0, len(e.classes))
	for c := range e.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Form groups inputs that submit together.
type Form struct {
	ID string
	// OnSubmit runs on every Submit, whether or not navigation is disabled.
	OnSubmit func()

	noNavigate bool
}

// NewForm creates a form with default navigation enabled.
func NewForm(id string, onSubmit func()) *Form {
	return &Form{ID: id, OnSubmit: onSubmit}
}

// DisableNavigation turns the default submit action into a no-op so that
// submitting never leaves the page.
func (f *Form) DisableNavigation() { f.noNavigate = true }

// Submit runs the submit handler and reports whether the default
// navigation would have happened.
func (f *Form) Submit() (navigated bool) {
	if f.OnSubmit != nil {
		f.OnSubmit()
	}
	return !f.noNavigate
}
