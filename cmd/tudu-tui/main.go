package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/tudu/internal/socketrpc"
	"github.com/tinytelemetry/tudu/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var socketPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/tudu/config.yml)")
	flag.StringVar(&socketPath, "socket", "", "override socket path to connect to tudu service")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("tudu CLI - Terminal Client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	// The alternate screen owns stdout, so request errors go to a file.
	closeLog := redirectLog()
	defer closeLog()

	client, err := socketrpc.Dial(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("cannot connect to tudu service at %s: %w\nIs the tudu service running? Start it with: tudu", cfg.SocketPath, err)
	}
	defer client.Close()
	client.SetTimeout(cfg.RequestTimeout)

	todos := tui.NewTodoPage(client, tui.TodoPageConfig{
		RefreshInterval: cfg.RefreshInterval,
		BusyDelay:       cfg.BusyDelay,
	})
	app := tui.NewApp(todos, tui.NewHelpPage())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func redirectLog() func() {
	home, err := os.UserHomeDir()
	if err != nil {
		return func() {}
	}
	dir := filepath.Join(home, ".local", "state", "tudu")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return func() {}
	}
	f, err := tea.LogToFile(filepath.Join(dir, "tudu-tui.log"), "tui")
	if err != nil {
		return func() {}
	}
	return func() { _ = f.Close() }
}
