package duckdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/tudu/internal/model"
)

// Re-exported sentinels so callers of the store need not import model.
var (
	ErrNotFound   = model.ErrNotFound
	ErrEmptyTitle = model.ErrEmptyTitle
)

// Add inserts a new todo and returns its id.
func (s *Store) Add(title string, done bool, now time.Time) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var doneAt any
	if done {
		doneAt = now
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO todos (title, done, created, done_at) VALUES (?, ?, ?, ?) RETURNING id",
		title, done, now, doneAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting todo: %w", err)
	}
	return formatID(id), nil
}

// Toggle flips the done flag of the given todo and returns its new state.
// Returns ErrNotFound if id isn't found.
func (s *Store) Toggle(id string) (Todo, error) {
	rowID, ok := parseID(id)
	if !ok {
		return Todo{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE todos
		SET done = NOT done,
		    done_at = CASE WHEN done THEN NULL ELSE current_timestamp END
		WHERE id = ?`, rowID)
	if err != nil {
		return Todo{}, fmt.Errorf("toggling todo %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Todo{}, ErrNotFound
	}
	return s.getLocked(ctx, rowID)
}

// Remove deletes a todo. No-op if id doesn't exist.
func (s *Store) Remove(id string) error {
	rowID, ok := parseID(id)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", rowID); err != nil {
		return fmt.Errorf("removing todo %s: %w", id, err)
	}
	return nil
}

// DeleteDoneBefore removes todos that were completed before cutoff.
// Returns the number of deleted rows.
func (s *Store) DeleteDoneBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM todos WHERE done AND done_at IS NOT NULL AND done_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting done todos: %w", err)
	}
	return res.RowsAffected()
}
