package duckdb

import (
	"testing"
	"time"
)

func TestRetentionCleaner_DisabledReturnsNil(t *testing.T) {
	store := newTestStore(t)
	if c := NewRetentionCleaner(store, RetentionConfig{}); c != nil {
		t.Fatal("expected nil cleaner when retention is disabled")
	}
}

func TestRetentionCleaner_StopIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	cleaner := NewRetentionCleaner(store, RetentionConfig{DoneRetentionDays: 1})
	if cleaner == nil {
		t.Fatal("expected non-nil retention cleaner")
	}

	cleaner.Stop()
	cleaner.Stop()
}

func TestDeleteDoneBefore_OnlyOldDoneTodos(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	oldDone := mustAdd(t, store, "old done", true, now.Add(-72*time.Hour))
	mustAdd(t, store, "open", false, now.Add(-72*time.Hour))
	mustAdd(t, store, "fresh done", true, now)

	if _, err := store.DB().Exec("UPDATE todos SET done_at = ? WHERE title = 'old done'", now.Add(-72*time.Hour)); err != nil {
		t.Fatalf("backdate done_at: %v", err)
	}

	n, err := store.DeleteDoneBefore(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteDoneBefore: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d, want 1", n)
	}
	if _, err := store.Get(oldDone); err != ErrNotFound {
		t.Fatalf("Get(old done) err = %v, want ErrNotFound", err)
	}
	if got, _ := store.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}
}
