package config

import (
	"log/slog"
	"os"

	"github.com/youruser/ticketapp/internal/assets"
)

// NewAssetCache builds the asset cache these settings describe: a directory
// store under CacheDir, and an HTTP fetcher unless Offline is set.
func (c Config) NewAssetCache(log *slog.Logger) (*assets.Cache, error) {
	store, err := assets.NewDirStore(c.CacheDir)
	if err != nil {
		return nil, err
	}
	opts := assets.Options{Store: store, Logger: log}
	if !c.Offline {
		opts.Fetcher = assets.NewHTTPFetcher(c.FetchTimeout)
	}
	if c.FontBaseURL != "" {
		opts.FontURLs = assets.FontURLsFromBase(c.FontBaseURL)
	}
	return assets.New(opts), nil
}

// NewLogger returns a text logger at LogLevel.
func (c Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}
