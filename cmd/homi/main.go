package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/config"
	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/handler"
	"github.com/boddenberg/homi-brain-go/internal/infra/cache"
	"github.com/boddenberg/homi-brain-go/internal/infra/memory"
	"github.com/boddenberg/homi-brain-go/internal/infra/observability"
	"github.com/boddenberg/homi-brain-go/internal/infra/postgres"
	"github.com/boddenberg/homi-brain-go/internal/infra/resilience"
	"github.com/boddenberg/homi-brain-go/internal/infra/supabase"
	"github.com/boddenberg/homi-brain-go/internal/port"
	"github.com/boddenberg/homi-brain-go/internal/service"

	"go.uber.org/zap"
)

const serviceName = "homi-brain"

func main() {
	// --- Load .env file (for local development) ---
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, serviceName)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Bool("redis_cache", cfg.RedisAddr != ""),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("sim_trials", cfg.SimTrials),
		zap.Int("sim_horizon_months", cfg.SimHorizonMonths),
		zap.Float64("sim_volatility", cfg.SimVolatility),
		zap.Int("max_concurrent_simulations", cfg.MaxConcurrentSimulations),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	deps := []handler.Dependency{{Name: "store-" + cfg.StoreBackend, Pinger: store}}

	// --- Cache ---
	var resultCache port.Cache[[]byte]
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, serviceName+":", cfg.CacheTTL)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis not reachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		resultCache = rc
		deps = append(deps, handler.Dependency{Name: "redis", Pinger: rc})
		logger.Info("using Redis result cache", zap.String("addr", cfg.RedisAddr))
	} else {
		mc := cache.New[[]byte](cfg.CacheTTL)
		defer mc.Close()
		resultCache = mc
	}

	// --- Services ---
	defaults := domain.SimulationConfig{
		TrialCount:       cfg.SimTrials,
		HorizonMonths:    cfg.SimHorizonMonths,
		IncomeVolatility: cfg.SimVolatility,
		Workers:          cfg.SimWorkers,
	}
	advisor := service.NewAdvisor(
		store,
		resultCache,
		resilience.NewBulkhead(cfg.MaxConcurrentSimulations),
		defaults,
		metrics,
		logger,
	)
	coachSvc := service.NewCoachService(store, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
	chatSvc := service.NewChatService(service.DefaultCompanions(), metrics, logger)

	// --- Router ---
	router := handler.NewRouter(advisor, coachSvc, chatSvc, deps, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openStore builds the configured persistence backend. The returned close
// function is never nil.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		store := postgres.NewStore(pool)
		if cfg.DevAuth {
			coach, err := memory.DemoCoach()
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
			var conflict *domain.ErrConflict
			if err := store.CreateCoach(ctx, &coach); err != nil && !errors.As(err, &conflict) {
				pool.Close()
				return nil, nil, fmt.Errorf("seed demo coach: %w", err)
			}
			logger.Warn("DEV_AUTH enabled: demo coach available", zap.String("email", memory.DemoCoachEmail))
		}
		logger.Info("using Postgres store")
		return store, pool.Close, nil

	case config.StoreSupabase:
		resilienceCfg := resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
		}
		client := supabase.NewClient(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.SupabaseURL,
			cfg.SupabaseServiceRoleKey,
			resilience.NewCircuitBreaker("supabase"),
			resilienceCfg,
			logger,
		)
		logger.Info("using Supabase store", zap.String("supabase_url", cfg.SupabaseURL))
		return client, func() {}, nil

	default:
		store := memory.NewStore()
		if cfg.DevAuth {
			if err := store.SeedDemoCoach(); err != nil {
				return nil, nil, err
			}
			logger.Warn("DEV_AUTH enabled: demo coach available", zap.String("email", memory.DemoCoachEmail))
		}
		logger.Warn("using in-memory store; data is lost on restart")
		return store, func() {}, nil
	}
}
