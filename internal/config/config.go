package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings shoplist reads at startup.
type Config struct {
	DataFile      string
	LogFile       string
	Theme         string
	WatchInterval time.Duration
}

const (
	defaultConfigPath    = "~/.config/shoplist/config.toml"
	defaultDataFile      = "~/.local/share/shoplist/prefs.toml"
	defaultLogFile       = "~/.local/state/shoplist/shoplist.log"
	defaultWatchInterval = 2 * time.Second
)

// Load locates and parses the shoplist config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataFile      string  `toml:"data_file"`
		LogFile       string  `toml:"log_file"`
		Theme         string  `toml:"theme"`
		WatchInterval float64 `toml:"watch_interval"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.DataFile); v != "" {
		cfg.DataFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)
	if raw.WatchInterval < 0 {
		return Config{}, fmt.Errorf("parse config: watch_interval must not be negative")
	}
	if raw.WatchInterval > 0 {
		cfg.WatchInterval = time.Duration(raw.WatchInterval * float64(time.Second))
	}

	return cfg, nil
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		DataFile:      mustExpand(defaultDataFile),
		LogFile:       mustExpand(defaultLogFile),
		WatchInterval: defaultWatchInterval,
	}
}

// WithDataFile returns a copy of c reading and writing the list at path.
// A blank path leaves c unchanged.
func (c Config) WithDataFile(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return c, nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return c, err
	}
	c.DataFile = expanded
	return c, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
