package focus

// KeyEvent is a single keystroke delivered to document key listeners.
type KeyEvent struct {
	Key string

	prevented bool
}

// PreventDefault suppresses the key's default action (e.g. typing the
// character into the newly focused field).
func (e *KeyEvent) PreventDefault()        { e.prevented = true }
func (e *KeyEvent) DefaultPrevented() bool { return e.prevented }

// String implements fmt.Stringer so events can be matched with key.Matches.
func (e *KeyEvent) String() string { return e.Key }

// ListenerID identifies a registered key listener.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn func(*KeyEvent)
}

// Document is the element registry of a page: it tracks registered
// elements and forms by id, which one has focus, and document-level key
// listeners. It is not safe for concurrent use; it is driven from the
// UI event loop.
type Document struct {
	elements  map[string]*Element
	forms     map[string]*Form
	active    string
	listeners []listener
	nextID    ListenerID
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		elements: make(map[string]*Element),
		forms:    make(map[string]*Form),
	}
}

// Register adds or replaces an element.
func (d *Document) Register(e *Element) {
	d.elements[e.id] = e
}

// Unregister removes an element. If it had focus, focus is cleared.
func (d *Document) Unregister(id string) {
	delete(d.elements, id)
	if d.active == id {
		d.active = ""
	}
}

// Lookup returns the element with the given id, or nil.
func (d *Document) Lookup(id string) *Element {
	return d.elements[id]
}

// AddForm adds or replaces a form.
func (d *Document) AddForm(f *Form) { d.forms[f.ID] = f }

// LookupForm returns the form with the given id, or nil.
func (d *Document) LookupForm(id string) *Form { return d.forms[id] }

// Focus moves focus to the element with the given id.
// Returns false and leaves focus unchanged if no such element exists.
func (d *Document) Focus(id string) bool {
	if _, ok := d.elements[id]; !ok {
		return false
	}
	d.active = id
	return true
}

// Blur clears focus.
func (d *Document) Blur() { d.active = "" }

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *Element {
	if d.active == "" {
		return nil
	}
	return d.elements[d.active]
}

// AddKeyListener registers fn for every dispatched key.
func (d *Document) AddKeyListener(fn func(*KeyEvent)) ListenerID {
	d.nextID++
	d.listeners = append(d.listeners, listener{id: d.nextID, fn: fn})
	return d.nextID
}

// RemoveKeyListener unregisters a listener. Unknown ids are ignored.
func (d *Document) RemoveKeyListener(id ListenerID) {
	for i, l := range d.listeners {
		if l.id == id {
			d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered key listeners.
func (d *Document) ListenerCount() int { return len(d.listeners) }

// DispatchKey delivers key to all listeners in registration order and
// returns the event so the caller can check DefaultPrevented.
func (d *Document) DispatchKey(key string) *KeyEvent {
	ev := &KeyEvent{Key: key}
	// Listeners may remove themselves while running.
	snapshot := append([]listener(nil), d.listeners...)
	for _, l := range snapshot {
		l.fn(ev)
	}
	return ev
}
