package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const todoColumns = "id, title, done, created"

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// formatID renders a row id the way todos are addressed outside the store.
func formatID(id int64) string {
	return strconv.FormatInt(id, 16)
}

// parseID converts an external todo id back to its row id.
// Malformed ids cannot exist in the store, so ok is false for them.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 16, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func scanTodos(rows *sql.Rows) ([]Todo, error) {
	defer rows.Close()

	todos := make([]Todo, 0)
	for rows.Next() {
		var (
			id int64
			t  Todo
		)
		if err := rows.Scan(&id, &t.Title, &t.Done, &t.Created); err != nil {
			return nil, err
		}
		t.ID = formatID(id)
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// All returns every stored todo, newest first.
func (s *Store) All() ([]Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todos ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	return scanTodos(rows)
}

// wordPrefixPattern builds an RE2 pattern matching term at the start of any
// word in a lowercased title.
func wordPrefixPattern(term string) string {
	return `(^|\W)` + regexp.QuoteMeta(strings.ToLower(term))
}

// Find returns todos having a title word that starts with term (case-insensitive),
// newest first. An empty term matches everything.
func (s *Store) Find(term string) ([]Todo, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.All()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE regexp_matches(lower(title), ?) ORDER BY id DESC",
		wordPrefixPattern(term))
	if err != nil {
		return nil, fmt.Errorf("searching todos: %w", err)
	}
	return scanTodos(rows)
}

// Get returns a single todo by id.
func (s *Store) Get(id string) (Todo, error) {
	rowID, ok := parseID(id)
	if !ok {
		return Todo{}, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	return s.getLocked(ctx, rowID)
}

func (s *Store) getLocked(ctx context.Context, rowID int64) (Todo, error) {
	t := Todo{ID: formatID(rowID)}
	err := s.db.QueryRowContext(ctx,
		"SELECT title, done, created FROM todos WHERE id = ?", rowID).
		Scan(&t.Title, &t.Done, &t.Created)
	if err == sql.ErrNoRows {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("reading todo %s: %w", t.ID, err)
	}
	return t, nil
}

// Len returns the number of stored todos.
func (s *Store) Len() (int, error) {
	st, err := s.Stats()
	return st.Total, err
}

// Stats returns total and done counts.
func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var st Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE done) FROM todos").
		Scan(&st.Total, &st.Done)
	if err != nil {
		return Stats{}, fmt.Errorf("counting todos: %w", err)
	}
	return st, nil
}
