package main

import (
	"time"

	"github.com/tinytelemetry/tudu/internal/model"
)

const (
	defaultBindHost       = "127.0.0.1"
	defaultAPIPort        = 3000
	defaultQueryTimeout   = model.DefaultQueryTimeout
	defaultDoneRetention  = 0 // days, 0 = keep forever
	defaultBackupInterval = time.Hour
	defaultBackupKeepLast = 24
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Host           string         `mapstructure:"host"`
	APIEnabled     bool           `mapstructure:"api-enabled"`
	APIPort        int            `mapstructure:"api-port"`
	APIAddr        string         `mapstructure:"api-addr"`
	DBPath         string         `mapstructure:"db-path"`
	QueryTimeout   time.Duration  `mapstructure:"query-timeout"`
	SocketPath     string         `mapstructure:"socket-path"`
	SeedDemo       bool           `mapstructure:"seed-demo"`
	SeedFile       string         `mapstructure:"seed-file"`
	DoneRetention  int            `mapstructure:"done-retention"`
	Simulate       simulateConfig `mapstructure:"simulate"`
	BackupEnabled  bool           `mapstructure:"backup-enabled"`
	BackupInterval time.Duration  `mapstructure:"backup-interval"`
	BackupLocalDir string         `mapstructure:"backup-local-dir"`
	BackupKeepLast int            `mapstructure:"backup-keep-last"`
	ConfigPath     string         `mapstructure:"-"` // not from config file
}

// simulateConfig is the "simulate" section: artificial store latency for
// exercising the busy indicator against a local database.
type simulateConfig struct {
	ResponseDelayMin time.Duration `mapstructure:"response-delay-min"`
	ResponseDelayMax time.Duration `mapstructure:"response-delay-max"`
}
