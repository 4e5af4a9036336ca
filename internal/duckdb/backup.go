package duckdb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrInMemoryStore is returned when snapshotting a store without a file.
var ErrInMemoryStore = errors.New("duckdb: in-memory store cannot be snapshotted")

// SnapshotTo writes a consistent copy of the todo database to dst.
//
// Writers are held off only while CHECKPOINT folds the WAL into the main
// file; the copy itself runs unlocked against the checkpointed file. dst
// appears atomically or not at all.
func (s *Store) SnapshotTo(dst string) error {
	if s.path == "" {
		return ErrInMemoryStore
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}

	if err := s.checkpoint(); err != nil {
		return fmt.Errorf("snapshot: checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+"-*")
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := fillSnapshot(tmp, s.path); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("snapshot: publish: %w", err)
	}
	return nil
}

func (s *Store) checkpoint() error {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "CHECKPOINT")
	return err
}

// fillSnapshot copies src into tmp, syncs and closes it. A short copy is
// an error: the file changed size under us.
func fillSnapshot(tmp *os.File, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	n, err := io.Copy(tmp, in)
	if err != nil {
		return err
	}
	if n < info.Size() {
		return fmt.Errorf("short copy of %s: %d of %d bytes", src, n, info.Size())
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	return tmp.Close()
}
