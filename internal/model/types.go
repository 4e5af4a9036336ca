package model

import "time"

// Todo is a single todo item. It is the canonical type for storage,
// transport (socket RPC, HTTP) and display.
type Todo struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Done    bool      `json:"done"`
	Created time.Time `json:"created"`
}

// Stats summarizes completion across all stored todos.
type Stats struct {
	Total int `json:"total"`
	Done  int `json:"done"`
}

// Open returns the number of todos not yet done.
func (s Stats) Open() int { return s.Total - s.Done }

// PercentDone returns the share of done todos as an integer percentage.
// An empty store is 0% done.
func (s Stats) PercentDone() int {
	if s.Total <= 0 {
		return 0
	}
	return s.Done * 100 / s.Total
}

// StatsOf computes Stats for an already fetched list.
func StatsOf(todos []Todo) Stats {
	st := Stats{Total: len(todos)}
	for i := range todos {
		if todos[i].Done {
			st.Done++
		}
	}
	return st
}
