// Command domscout is the element discovery and browser session daemon.
//
// Usage:
//
//	domscout -config domscout.yaml        # run with config file
//	domscout -addr :8900 -db data/scout.db  # run with flags
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/probelab/domscout/config"
	"github.com/probelab/domscout/httpapi"
	"github.com/probelab/domscout/session"
	"github.com/probelab/domscout/sessionstore"
)

func main() {
	configPath := flag.String("config", "", "path to domscout.yaml config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "path to SQLite session database (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := resolveConfig(*configPath, *addr, *dbPath, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("domscout: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	store, err := sessionstore.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	mgr := session.NewManager(store, session.Config{
		TTL:              cfg.Session.TTL,
		SweepInterval:    cfg.Session.SweepInterval,
		ActionTimeout:    cfg.Session.ActionTimeout,
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		Headful:          cfg.Browser.Headful,
		RemoteURL:        cfg.Browser.Remote,
		Logger:           logger,
	})
	mgr.StartSweep(ctx)

	api := httpapi.NewServer(mgr, logger)
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: api.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("domscout: listening", "addr", cfg.HTTP.Addr, "db", cfg.Store.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("domscout: shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Warn("domscout: http shutdown", "error", err)
	}
	mgr.CloseAll(shutCtx)
	return nil
}

func resolveConfig(configPath, addr, dbPath, logLevel string) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}
