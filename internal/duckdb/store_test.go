package duckdb

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustAdd(t *testing.T, store *Store, title string, done bool, now time.Time) string {
	t.Helper()
	id, err := store.Add(title, done, now)
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", title, err)
	}
	return id
}

func titles(todos []Todo) []string {
	out := make([]string, len(todos))
	for i := range todos {
		out[i] = todos[i].Title
	}
	return out
}

func TestAdd_AssignsHexIDs(t *testing.T) {
	store := newTestStore(t)

	first := mustAdd(t, store, "Buy milk", false, time.Now())
	second := mustAdd(t, store, "Wash the car", false, time.Now())

	if first != "1" || second != "2" {
		t.Fatalf("ids = %q, %q; want 1, 2", first, second)
	}

	for i := 3; i <= 10; i++ {
		mustAdd(t, store, "filler", false, time.Now())
	}
	last := mustAdd(t, store, "eleventh", false, time.Now())
	if last != "b" {
		t.Fatalf("11th id = %q, want hex %q", last, "b")
	}
}

func TestAdd_EmptyTitleRejected(t *testing.T) {
	store := newTestStore(t)

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := store.Add(title, false, time.Now()); !errors.Is(err, ErrEmptyTitle) {
			t.Fatalf("Add(%q) err = %v, want ErrEmptyTitle", title, err)
		}
	}
	if n, _ := store.Len(); n != 0 {
		t.Fatalf("Len = %d, want 0", n)
	}
}

func TestAll_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Now()
	mustAdd(t, store, "first", false, base)
	mustAdd(t, store, "second", true, base.Add(time.Second))
	mustAdd(t, store, "third", false, base.Add(2*time.Second))

	todos, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	got := titles(todos)
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("All = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("All = %v, want %v", got, want)
		}
	}
	if !todos[1].Done {
		t.Fatal("second todo should be done")
	}
}

func TestAll_EmptyStore(t *testing.T) {
	store := newTestStore(t)
	todos, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Fatalf("All on empty store = %#v, want empty non-nil slice", todos)
	}
}

func TestFind(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()
	mustAdd(t, store, "Buy milk", false, now)
	mustAdd(t, store, "Wash the car", false, now)
	mustAdd(t, store, "Feed the cat", true, now)
	mustAdd(t, store, "Buy more cat food", false, now)

	tests := []struct {
		term string
		want []string
	}{
		{"buy", []string{"Buy more cat food", "Buy milk"}},
		{"BUY", []string{"Buy more cat food", "Buy milk"}},
		{"ca", []string{"Buy more cat food", "Feed the cat", "Wash the car"}},
		{"cat", []string{"Buy more cat food", "Feed the cat"}},
		{"ilk", nil},
		{"dog", nil},
		{"c.t", nil},
		{"", []string{"Buy more cat food", "Feed the cat", "Wash the car", "Buy milk"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			todos, err := store.Find(tt.term)
			if err != nil {
				t.Fatalf("Find(%q): %v", tt.term, err)
			}
			got := titles(todos)
			if len(got) != len(tt.want) {
				t.Fatalf("Find(%q) = %v, want %v", tt.term, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Find(%q) = %v, want %v", tt.term, got, tt.want)
				}
			}
		})
	}
}

func TestToggle(t *testing.T) {
	store := newTestStore(t)
	id := mustAdd(t, store, "Feed the cat", false, time.Now())

	todo, err := store.Toggle(id)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !todo.Done || todo.ID != id || todo.Title != "Feed the cat" {
		t.Fatalf("Toggle returned %+v", todo)
	}

	todo, err = store.Toggle(id)
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if todo.Done {
		t.Fatal("second Toggle should clear done")
	}
}

func TestToggle_NotFound(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"ff", "zz", "", "-1"} {
		if _, err := store.Toggle(id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Toggle(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	id := mustAdd(t, store, "Wash the car", false, time.Now())
	keep := mustAdd(t, store, "Buy milk", false, time.Now())

	if err := store.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(id); err != nil {
		t.Fatalf("Remove of missing id should be a no-op, got %v", err)
	}
	if err := store.Remove("not-hex"); err != nil {
		t.Fatalf("Remove of malformed id should be a no-op, got %v", err)
	}

	todos, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != keep {
		t.Fatalf("All after remove = %+v", todos)
	}
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()
	mustAdd(t, store, "a", true, now)
	mustAdd(t, store, "b", false, now)
	mustAdd(t, store, "c", false, now)
	mustAdd(t, store, "d", true, now)

	st, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 4 || st.Done != 2 {
		t.Fatalf("Stats = %+v, want total=4 done=2", st)
	}
	if st.PercentDone() != 50 {
		t.Fatalf("PercentDone = %d, want 50", st.PercentDone())
	}
}
