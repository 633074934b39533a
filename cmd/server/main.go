package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gatehouse/internal/configstore"
	"gatehouse/internal/entitlement"
	"gatehouse/internal/fees"
	"gatehouse/internal/jwtauth"
	"gatehouse/internal/platform/config"
	"gatehouse/internal/platform/httpserver"
	"gatehouse/internal/platform/logger"
	"gatehouse/internal/platform/metrics"
	"gatehouse/internal/platform/middleware"
	redisclient "gatehouse/internal/platform/redis"
	"gatehouse/internal/usage"
	"gatehouse/internal/venuescore"
	adminmw "gatehouse/pkg/platform/middleware/admin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gatehouse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores. Postgres and Redis are optional; without them the process runs
	// entirely in memory, which is enough for local development.
	var (
		configStore configstore.Store = configstore.NewInMemoryStore()
		venueCounts venuescore.CountsSource
		venueStore  venuescore.VenueStore
	)
	memVenues := venuescore.NewInMemoryStore()
	venueCounts, venueStore = memVenues, memVenues

	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}

		pgConfig := configstore.NewPostgres(db)
		if err := pgConfig.Migrate(ctx); err != nil {
			return err
		}
		if err := pgConfig.EnsureDefaults(ctx); err != nil {
			return err
		}
		configStore = pgConfig

		pgVenues := venuescore.NewPostgres(db)
		if err := pgVenues.Migrate(ctx); err != nil {
			return err
		}
		venueCounts, venueStore = pgVenues, pgVenues
		log.Info("postgres connected")
	}

	var usageStore usage.Store = usage.NewInMemoryStore()
	redisClient, err := redisclient.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		usageStore = usage.NewRedisStore(redisClient.Client)
		log.Info("redis connected")
	}

	// Services.
	configService, err := configstore.New(configStore, configstore.WithLogger(log))
	if err != nil {
		return err
	}
	gate := entitlement.New(configService,
		entitlement.WithLogger(log),
		entitlement.WithTTL(cfg.EntitlementCacheTTL),
	)
	configService.RegisterInvalidator(gate)

	usageService := usage.New(usageStore, configService, usage.WithLogger(log))
	calculator := fees.NewCalculator(cfg.ProcessorRatePct, cfg.ProcessorFixedGBP)
	scoreEngine := venuescore.New(venueCounts, venueStore,
		venuescore.WithLogger(log),
		venuescore.WithWeights(venuescore.Weights{
			EventCompleted: cfg.ScoreWeights.EventCompleted,
			Refund:         cfg.ScoreWeights.Refund,
			Dispute:        cfg.ScoreWeights.Dispute,
			SafetyIncident: cfg.ScoreWeights.SafetyIncident,
		}),
		venuescore.WithSweepBatchSize(cfg.ScoreSweepBatchSize),
		venuescore.WithSweepPause(cfg.ScoreSweepPause),
	)
	jwtService := jwtauth.New(cfg.JWTSigningKey, "gatehouse")

	// Router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	entitlement.NewHandler(gate).Register(r)
	fees.NewHandler(calculator, gate, configService, log).Register(r)
	venuescore.NewHandler(scoreEngine).Register(r)

	usageHandler := usage.NewHandler(usageService, gate)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtService, log))
		usageHandler.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.AdminToken, log))
		configstore.NewHandler(configService, log).RegisterAdmin(r)
		usageHandler.RegisterAdmin(r)
		venuescore.NewHandler(scoreEngine).RegisterAdmin(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
