package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/flagrank/internal/adapters/http/api"
	"github.com/okian/flagrank/internal/adapters/http/swagger"
	"github.com/okian/flagrank/internal/adapters/snapshot"
	app "github.com/okian/flagrank/internal/app"
	"github.com/okian/flagrank/internal/config"
	"github.com/okian/flagrank/internal/domain/catalog"
	"github.com/okian/flagrank/pkg/logger"
	"github.com/okian/flagrank/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "flagrank stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

// run starts the service and HTTP server and blocks until ctx is cancelled
// or one of the background tasks fails.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithLogger(log.Named("api"))).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		startMatchSweeper(gctx, svc, cfg.SweepInterval())
		return nil
	})
	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	runErr := g.Wait()

	// Final persist runs on a fresh context; the root one is already done.
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopErr := svc.Stop(stopCtx)
	log.Info(stopCtx, "server stopped")

	return errors.Join(runErr, stopErr)
}

// newService builds the service and its snapshot backend from cfg.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	store, err := snapshot.Open(ctx, cfg.SnapshotBackend, cfg.SnapshotPath,
		snapshot.WithKeep(cfg.SnapshotKeep),
		snapshot.WithLogger(log.Named("snapshot")),
	)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithCatalog(cfg.CatalogPath, catalog.Options{
			Category:      cfg.Category,
			IconTemplate:  cfg.IconTemplate,
			NoteParent:    cfg.NoteParent,
			InitialRating: cfg.InitialRating,
		}),
		app.WithMatchTTL(cfg.MatchTTL()),
		app.WithMaxPendingMatches(cfg.MaxPendingMatches),
		app.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		app.WithSnapshotStore(store),
	}
	if cfg.SnapshotBackend != snapshot.BackendNone {
		opts = append(opts, app.WithSnapshotSchedule(cfg.SnapshotSchedule))
	}
	return app.New(opts...), nil
}

// startMatchSweeper drops expired pending matches every interval.
func startMatchSweeper(ctx context.Context, svc *app.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.SweepExpired(ctx)
		}
	}
}

// startSystemMetricsUpdater starts a background loop that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
