package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/atmx/options-flow/internal/api"
	"github.com/atmx/options-flow/internal/config"
	"github.com/atmx/options-flow/internal/connection"
	"github.com/atmx/options-flow/internal/metrics"
	"github.com/atmx/options-flow/internal/router"
	"github.com/atmx/options-flow/internal/session"
	"github.com/atmx/options-flow/internal/watchlist"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	level, _ := cfg.Log.SlogLevel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("options-flow exited", "err", err)
		os.Exit(1)
	}
	fmt.Println("options-flow stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// --- Watchlist source ---
	source, cleanup, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		for _, fn := range cleanup {
			fn()
		}
	}()

	// --- Session read-model ---
	sess := session.New(session.Config{
		TradeCapacity:     cfg.Ledgers.Trades,
		PrintCapacity:     cfg.Ledgers.Prints,
		AutoTradeCapacity: cfg.Ledgers.AutoTrades,
	}, logger.With("component", "session"))

	// --- Upstream connection ---
	mgr := connection.NewManager(connection.ManagerConfig{
		Client: connection.ClientConfig{
			URL:          cfg.Upstream.URL,
			PingInterval: cfg.Upstream.PingInterval,
			PingTimeout:  cfg.Upstream.PingTimeout,
			WriteTimeout: cfg.Upstream.WriteTimeout,
			BufferSize:   cfg.Upstream.BufferSize,
		},
		ReconnectDelay:    cfg.Upstream.ReconnectDelay,
		MessageBufferSize: cfg.Upstream.MessageBufferSize,
	}, source, logger.With("component", "connection"))

	// --- WebSocket hub ---
	hub := api.NewHub(logger.With("component", "hub"))

	// --- Event router ---
	rt := router.New(mgr.Messages(), sess, hub, logger.With("component", "router"))
	rt.SetGate(mgr)

	svc := api.NewService(sess, mgr, rt, hub)

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metrics.Middleware)

	// CORS for the presentation layer.
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"options-flow"}`))
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		api.Routes(r, svc, hub)
	})

	// --- Server ---
	// No WriteTimeout: /api/v1/ws holds its connection open.
	srv := &http.Server{
		Addr:        ":" + strconv.Itoa(cfg.Server.Port),
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if err := rt.Start(gctx); err != nil {
		return fmt.Errorf("start router: %w", err)
	}
	if err := mgr.Start(gctx); err != nil {
		return fmt.Errorf("start connection manager: %w", err)
	}
	slog.Info("upstream feed started", "url", cfg.Upstream.URL, "watchlist", source.Name())

	g.Go(func() error {
		slog.Info("options-flow listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Graceful shutdown.
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down options-flow...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "err", err)
		}
		if err := mgr.Stop(shutdownCtx); err != nil {
			slog.Error("connection manager stop error", "err", err)
		}
		return rt.Stop(shutdownCtx)
	})

	return g.Wait()
}

// buildSource picks the watchlist source: PostgreSQL (optionally behind a
// Redis read-through cache) when a database is configured, otherwise the
// static list from the config file.
func buildSource(ctx context.Context, cfg *config.Config) (watchlist.Source, []func(), error) {
	var cleanup []func()

	if cfg.Database.URL == "" {
		slog.Warn("database.url not set, using static watchlist", "symbols", cfg.Watchlist.Symbols)
		src, err := watchlist.NewStaticSource(cfg.Watchlist.Symbols)
		return src, cleanup, err
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, cleanup, fmt.Errorf("database connection failed: %w", err)
	}
	cleanup = append(cleanup, pool.Close)

	pg := watchlist.NewPostgresSource(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, cleanup, fmt.Errorf("ensure watchlist schema: %w", err)
	}
	slog.Info("connected to PostgreSQL")

	// Seed an empty table from the configured list.
	seeded := false
	if _, err := pg.Load(ctx); errors.Is(err, watchlist.ErrEmpty) {
		for i, sym := range cfg.Watchlist.Symbols {
			if err := pg.Add(ctx, sym, i); err != nil {
				return nil, cleanup, fmt.Errorf("seed watchlist: %w", err)
			}
		}
		seeded = true
		slog.Info("seeded watchlist", "symbols", len(cfg.Watchlist.Symbols))
	}

	var src watchlist.Source = pg

	// Wrap with Redis read-through cache if configured.
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("invalid redis.url: %w", err)
		}
		rdb := redis.NewClient(opt)
		cleanup = append(cleanup, func() { rdb.Close() })
		cached := watchlist.NewCachedSource(src, rdb, cfg.Redis.TTL)
		if seeded {
			// A stale list from a previous database must not mask the seed.
			if err := cached.Invalidate(ctx); err != nil {
				slog.Warn("watchlist cache invalidate failed", "err", err)
			}
		}
		src = cached
		slog.Info("Redis cache enabled")
	}
	return src, cleanup, nil
}
