package model

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a todo id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmptyTitle is returned when adding a todo without a title.
	ErrEmptyTitle = errors.New("title is required")
)

// TodoReader provides read-only queries on todos.
type TodoReader interface {
	// All returns every todo, newest first.
	All() ([]Todo, error)
	// Find returns todos with a title word starting with term, newest first.
	Find(term string) ([]Todo, error)
	Len() (int, error)
	Stats() (Stats, error)
}

// TodoWriter provides mutations on todos.
type TodoWriter interface {
	Add(title string, done bool, now time.Time) (id string, err error)
	// Toggle flips the done flag and returns the new state.
	// Returns ErrNotFound if id isn't found.
	Toggle(id string) (Todo, error)
	// Remove deletes a todo. No-op if id doesn't exist.
	Remove(id string) error
}

// TodoStore is the full store contract shared by the DuckDB store,
// the socket RPC client and the simulated-delay decorator.
type TodoStore interface {
	TodoReader
	TodoWriter
}
