package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youruser/ticketapp/internal/api"
	"github.com/youruser/ticketapp/internal/config"
	"github.com/youruser/ticketapp/internal/guests"
	imagepkg "github.com/youruser/ticketapp/internal/image"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := cfg.NewLogger()

	cache, err := cfg.NewAssetCache(logger)
	if err != nil {
		logger.Error("asset cache unavailable", "err", err)
		os.Exit(1)
	}

	// Check the guest list at startup (best-effort)
	if gs, err := guests.LoadGuestsFromDataDir(cfg.DataDir); err != nil {
		logger.Warn("guest list not loaded; export is unavailable until it exists", "dir", cfg.DataDir, "err", err)
	} else {
		logger.Info("guest list loaded", "dir", cfg.DataDir, "guests", len(gs))
	}

	h := &api.Handler{
		Renderer: imagepkg.NewRenderer(imagepkg.Options{Assets: cache, Scale: cfg.OutputScale, Logger: logger}),
		Assets:   cache,
		DataDir:  cfg.DataDir,
		Log:      logger,
	}
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewEngine(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		logger.Info("starting server", "addr", "http://localhost:"+cfg.Port, "scale", cfg.OutputScale, "offline", cfg.Offline)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
