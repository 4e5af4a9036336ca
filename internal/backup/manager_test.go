package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeSnapshotter struct {
	dbPath string
	data   []byte
}

func (f *fakeSnapshotter) Path() string { return f.dbPath }

func (f *fakeSnapshotter) SnapshotTo(dstPath string) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(dstPath, f.data, 0644)
}

func TestNewManager_Disabled(t *testing.T) {
	t.Parallel()

	m, err := NewManager(&fakeSnapshotter{dbPath: "/tmp/tudu.duckdb", data: []byte("x")}, Config{})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil manager when disabled")
	}
}

func TestNewManager_EnabledRequiresDBPath(t *testing.T) {
	t.Parallel()

	_, err := NewManager(&fakeSnapshotter{dbPath: "", data: []byte("x")}, Config{
		Enabled:  true,
		LocalDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for empty db path")
	}
}

func TestNewManager_EnabledRequiresLocalDir(t *testing.T) {
	t.Parallel()

	_, err := NewManager(&fakeSnapshotter{dbPath: "/tmp/tudu.duckdb"}, Config{Enabled: true})
	if err == nil {
		t.Fatal("expected error for empty local dir")
	}
}

func TestNewManager_TakesStartupSnapshot(t *testing.T) {
	t.Parallel()

	localDir := t.TempDir()
	m, err := NewManager(&fakeSnapshotter{dbPath: "/tmp/tudu.duckdb", data: []byte("x")}, Config{
		Enabled:  true,
		LocalDir: localDir,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.Stop()
	m.Stop()

	files, err := filepath.Glob(filepath.Join(localDir, "tudu-*.duckdb"))
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("startup snapshots = %d, want 1", len(files))
	}
}

func TestRunOnce_CreatesAndPrunesLocalBackups(t *testing.T) {
	t.Parallel()

	localDir := t.TempDir()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0

	m := &Manager{
		store: &fakeSnapshotter{dbPath: "/tmp/tudu.duckdb", data: []byte("snapshot")},
		cfg: Config{
			Enabled:  true,
			LocalDir: localDir,
			KeepLast: 2,
		},
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		},
	}

	for i := 0; i < 3; i++ {
		if err := m.RunOnce(); err != nil {
			t.Fatalf("RunOnce #%d: %v", i+1, err)
		}
	}

	files, err := filepath.Glob(filepath.Join(localDir, "tudu-*.duckdb"))
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("backup files = %d, want 2", len(files))
	}

	oldest := filepath.Join(localDir, "tudu-"+base.Add(time.Minute).Format(fileTimeLayout)+".duckdb")
	if _, err := os.Stat(oldest); !os.IsNotExist(err) {
		t.Fatalf("oldest snapshot should have been pruned, stat err = %v", err)
	}
}
