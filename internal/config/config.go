// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         string
	CacheDir     string
	OutputScale  float64
	FetchTimeout time.Duration
	FontBaseURL  string
	Offline      bool
	DataDir      string
	LogLevel     slog.Level
}

func Default() Config {
	return Config{
		Port:         "8080",
		CacheDir:     filepath.Join(os.TempDir(), "ticket_assets"),
		OutputScale:  1.35,
		FetchTimeout: 15 * time.Second,
		DataDir:      "data",
		LogLevel:     slog.LevelInfo,
	}
}

// Load returns Default overridden by any of the recognised environment
// variables that are set.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	c := Default()
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("TICKET_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := getenv("TICKET_OUTPUT_SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 8 {
			return c, fmt.Errorf("TICKET_OUTPUT_SCALE: invalid value %q", v)
		}
		c.OutputScale = f
	}
	if v := getenv("TICKET_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return c, fmt.Errorf("TICKET_FETCH_TIMEOUT: invalid value %q", v)
		}
		c.FetchTimeout = d
	}
	if v := getenv("TICKET_FONT_BASE_URL"); v != "" {
		c.FontBaseURL = strings.TrimRight(v, "/")
	}
	if v := getenv("TICKET_OFFLINE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("TICKET_OFFLINE: invalid value %q", v)
		}
		c.Offline = b
	}
	if v := getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return c, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return c, nil
}
