package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtiq/skillrank/internal/adapters/cache"
	"github.com/courtiq/skillrank/internal/adapters/http/api"
	"github.com/courtiq/skillrank/internal/adapters/outcomestore"
	"github.com/courtiq/skillrank/internal/adapters/refresh"
	app "github.com/courtiq/skillrank/internal/app"
	"github.com/courtiq/skillrank/internal/config"
	"github.com/courtiq/skillrank/internal/domain/matchmake"
	"github.com/courtiq/skillrank/internal/domain/predict"
	"github.com/courtiq/skillrank/internal/domain/rating"
	"github.com/courtiq/skillrank/pkg/logger"
	"github.com/courtiq/skillrank/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Get().Error(context.Background(), "logger sync failed", logger.Error(err))
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Outcome readers: Postgres against the booking database, or in-memory
	// stores for local development.
	var (
		results  outcomestore.ResultReader
		docs     outcomestore.MatchDocReader
		bookings outcomestore.BookingReader
	)
	if cfg.PostgresDSN != "" {
		pg, err := outcomestore.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			os.Stderr.WriteString("failed to connect to postgres: " + err.Error() + "\n")
			return
		}
		defer pg.Close()
		results, docs, bookings = pg, pg, pg
		log.Info(ctx, "using postgres outcome store")
	} else {
		mem := outcomestore.NewMemoryStore()
		results, docs, bookings = mem, mem, mem
		log.Warn(ctx, "no postgres_dsn configured; using in-memory outcome store")
	}

	outcomes := outcomestore.NewAdapter(results, docs, bookings,
		outcomestore.WithMinConfidence(cfg.HeuristicMinConfidence),
		outcomestore.WithLogger(log),
	)

	// Leaderboard snapshots: Redis when configured, else process memory.
	var snapshots cache.Store
	if cfg.RedisAddr != "" {
		rs, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			os.Stderr.WriteString("failed to connect to redis: " + err.Error() + "\n")
			return
		}
		snapshots = rs
		log.Info(ctx, "using redis snapshot store", logger.String("addr", cfg.RedisAddr))
	} else {
		snapshots = cache.NewMemoryStore()
		log.Warn(ctx, "no redis_addr configured; using in-memory snapshot store")
	}

	aggregator := rating.NewAggregator(
		rating.WithConfidenceConstant(cfg.ConfidenceConstant),
		rating.WithDedupeCap(cfg.DedupeSize),
	)
	boards := cache.New(snapshots, aggregator, cache.WithMaxAge(cfg.CacheMaxAge()))

	// The refresher calls back into the service, so bind it through a
	// closure over the not-yet-constructed service value.
	var svc *app.Service
	var refresher *refresh.Refresher
	if cfg.RefreshIntervalSeconds > 0 {
		refresher = refresh.NewRefresher(
			func(ctx context.Context, venueID string) error {
				return svc.RecomputeVenue(ctx, venueID)
			},
			refresh.WithInterval(cfg.RefreshInterval()),
			refresh.WithWorkers(cfg.RefreshWorkers),
			refresh.WithLogger(log),
		)
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithMatchmaker(matchmake.NewMatchmaker(
			matchmake.WithStrongThreshold(cfg.StrongThreshold),
			matchmake.WithDefaultLimit(cfg.DefaultSuggestionLimit),
		)),
		app.WithPredictor(predict.NewPredictor(
			predict.WithSensitivity(cfg.PredictorSensitivity),
			predict.WithDrawBase(cfg.DrawBase),
			predict.WithDrawDecay(cfg.DrawDecay),
		)),
	}
	if refresher != nil {
		opts = append(opts, app.WithRefresher(refresher))
	}
	svc = app.New(outcomes, boards, opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Prometheus endpoint on its own listener.
	go startMetricsServer(ctx, cfg.MetricsAddr)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxSuggestionLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startMetricsServer serves the custom Prometheus registry until ctx ends.
func startMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Get().Info(ctx, "starting metrics server", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Get().Error(ctx, "metrics server failed", logger.Error(err))
	}
}
