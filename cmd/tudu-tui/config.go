package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/tudu/internal/busy"
	"github.com/tinytelemetry/tudu/internal/model"
	"github.com/tinytelemetry/tudu/internal/socketrpc"
)

// cliConfig holds only TUI-relevant configuration. It shares the service's
// config file; unknown keys are ignored.
type cliConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
	BusyDelay       time.Duration `mapstructure:"busy-delay"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	SocketPath      string        `mapstructure:"socket-path"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TUDU")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("refresh-interval", model.DefaultRefreshInterval)
	v.SetDefault("busy-delay", busy.DefaultDelay)
	v.SetDefault("request-timeout", socketrpc.DefaultCallTimeout)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "tudu", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.RefreshInterval < 0 {
		return cfg, fmt.Errorf("invalid refresh-interval: %s", cfg.RefreshInterval)
	}
	if cfg.RequestTimeout <= 0 {
		return cfg, fmt.Errorf("invalid request-timeout: %s", cfg.RequestTimeout)
	}

	return cfg, nil
}
