package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/tudu/internal/backup"
	"github.com/tinytelemetry/tudu/internal/duckdb"
	"github.com/tinytelemetry/tudu/internal/httpserver"
	"github.com/tinytelemetry/tudu/internal/model"
	"github.com/tinytelemetry/tudu/internal/seed"
	"github.com/tinytelemetry/tudu/internal/simulate"
	"github.com/tinytelemetry/tudu/internal/socketrpc"
)

// runServer opens the store and serves it over the socket and HTTP APIs
// until interrupted.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger("tudu")
	defer cleanupLogger()

	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	store, err := duckdb.NewStore(cfg.DBPath, duckdb.WithQueryTimeout(cfg.QueryTimeout))
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	seeded, err := seedStore(cfg, store)
	if err != nil {
		return fmt.Errorf("failed to seed todos: %w", err)
	}
	if seeded > 0 {
		log.Printf("seed: inserted %d todos", seeded)
	}

	retentionCleaner := duckdb.NewRetentionCleaner(store, duckdb.RetentionConfig{
		DoneRetentionDays: cfg.DoneRetention,
	})
	if retentionCleaner != nil {
		defer retentionCleaner.Stop()
	}

	backupManager, err := backup.NewManager(store, backup.Config{
		Enabled:  cfg.BackupEnabled,
		Interval: cfg.BackupInterval,
		LocalDir: cfg.BackupLocalDir,
		KeepLast: cfg.BackupKeepLast,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backups: %w", err)
	}
	if backupManager != nil {
		defer backupManager.Stop()
	}

	// Everything served to clients goes through the optional latency shim.
	served := simulate.Wrap(store, simulate.Config{
		ResponseDelayMin: cfg.Simulate.ResponseDelayMin,
		ResponseDelayMax: cfg.Simulate.ResponseDelayMax,
	})

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, served)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	sockServer := socketrpc.NewServer(cfg.SocketPath, served)
	if err := sockServer.Start(); err != nil {
		return fmt.Errorf("failed to start socket server: %w", err)
	}
	defer sockServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	printStartupBanner(cfg)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	signal.Stop(sigCh)
	return nil
}

// seedStore fills an empty store from seed-file, or with the demo todos
// when seed-demo is set.
func seedStore(cfg appConfig, store model.TodoStore) (int, error) {
	var items []seed.Item
	switch {
	case cfg.SeedFile != "":
		loaded, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return 0, err
		}
		items = loaded
	case cfg.SeedDemo:
		items = seed.Demo()
	default:
		return 0, nil
	}
	return seed.Apply(store, items, time.Now())
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

// configureRuntimeLogger sends the standard logger to
// ~/.local/state/tudu/<name>.log, falling back to stderr.
func configureRuntimeLogger(name string) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "tudu")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, name+".log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔╦╗╦ ╦╔╦╗╦ ╦
     ║ ║ ║ ║║║ ║
     ╩ ╚═╝═╩╝╚═╝`)

	separator := dim.Render("    ─────────────────────────────────")
	row := func(on bool, label, value string) string {
		mark := dot
		if on {
			mark = check
		}
		return fmt.Sprintf("    %s  %-14s %s", mark, label, value)
	}

	lines := []string{"", logo, "    " + dim.Render("v"+version), "", separator, ""}

	lines = append(lines, bold.Render("    Gateway"), "")
	if cfg.APIEnabled {
		lines = append(lines, row(true, "HTTP API", cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, row(false, "HTTP API", dim.Render("disabled")))
	}
	lines = append(lines, row(true, "Unix Socket", cyan.Render(shortenPath(cfg.SocketPath))), "")

	lines = append(lines, bold.Render("    Storage"), "")
	dbLabel := shortenPath(cfg.DBPath)
	if cfg.DBPath == "" {
		dbLabel = "in-memory"
	}
	lines = append(lines, row(true, "Storage", dim.Render(dbLabel)))
	if cfg.BackupEnabled {
		lines = append(lines, row(true, "Snapshots", dim.Render(shortenPath(cfg.BackupLocalDir))))
	} else {
		lines = append(lines, row(false, "Snapshots", dim.Render("disabled")))
	}
	if cfg.DoneRetention > 0 {
		lines = append(lines, row(true, "Retention", dim.Render(fmt.Sprintf("done todos kept %dd", cfg.DoneRetention))))
	} else {
		lines = append(lines, row(false, "Retention", dim.Render("keep forever")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Runtime"), "")
	if cfg.Simulate.ResponseDelayMax > 0 {
		lines = append(lines, row(true, "Latency", yellow.Render(fmt.Sprintf("%s-%s simulated",
			cfg.Simulate.ResponseDelayMin, cfg.Simulate.ResponseDelayMax))))
	} else {
		lines = append(lines, row(false, "Latency", dim.Render("none simulated")))
	}
	if cfg.ConfigPath != "" {
		lines = append(lines, row(true, "Config File", dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, row(false, "Config File", dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "",
		"    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
