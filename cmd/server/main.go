// Package main is the entry point of the school administration API server.
//
// Startup order: configuration, logging, record store (memory, badger or
// postgres), optional redis ranking cache, admin seed, HTTP server.
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

	"github.com/schoolhub/school-admin/config"
	"github.com/schoolhub/school-admin/internal/application/command"
	"github.com/schoolhub/school-admin/internal/application/query"
	"github.com/schoolhub/school-admin/internal/domain/auth"
	"github.com/schoolhub/school-admin/internal/domain/ranking"
	"github.com/schoolhub/school-admin/internal/infrastructure/persistence/redis"
	httpserver "github.com/schoolhub/school-admin/internal/interface/http"
	"github.com/schoolhub/school-admin/internal/interface/http/handlers"
	"github.com/schoolhub/school-admin/pkg/circuitbreaker"
	"github.com/schoolhub/school-admin/pkg/logger"
	"github.com/schoolhub/school-admin/pkg/retry"
	"github.com/schoolhub/school-admin/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration & logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	}).With(logger.String("app", cfg.App.Name), logger.String("version", cfg.App.Version))

	if cfg.App.Location != nil {
		timeutil.SetLocation(cfg.App.Location)
	}

	log.Info("starting school admin server",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("store", string(cfg.Store.Driver)),
		logger.String("timezone", cfg.App.Timezone),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Record store
	// ─────────────────────────────────────────────────────────────────────────
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing record store")
		if err := store.Close(); err != nil {
			log.Warn("record store close failed", logger.Err(err))
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Ranking cache (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		meritCache   ranking.MeritCache
		redisCache   *redis.Cache
		cacheBreaker *circuitbreaker.CircuitBreaker
	)
	if cfg.Redis.Enabled {
		redisCache, err = connectRedis(ctx, cfg, log)
		if err != nil {
			log.Warn("redis unavailable, ranking cache disabled", logger.Err(err))
		} else {
			defer redisCache.Close()
			cacheBreaker = circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit breaker state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			})
			meritCache = redis.NewMeritCache(redisCache, cfg.Redis.RankingTTL, cacheBreaker)
			log.Info("ranking cache enabled", logger.Duration("ttl", cfg.Redis.RankingTTL))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Auth
	// ─────────────────────────────────────────────────────────────────────────
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, cfg.App.Name)
	authService := auth.NewService(store.Users, tokens, cfg.Auth.BcryptCost)

	created, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		log.Info("admin account created", logger.String("username", cfg.Auth.AdminUsername))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	var metrics *httpserver.Metrics
	var observer query.RankingObserver
	if cfg.Observability.MetricsEnabled {
		metrics = httpserver.NewMetrics("school")
		observer = metrics
	}

	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("store", handlers.NewPingCheck(store))
	if redisCache != nil {
		ping := handlers.NewPingCheck(redisCache)
		health.AddOptionalCheck("ranking_cache", func(ctx context.Context) error {
			if cacheBreaker.State() == circuitbreaker.StateOpen {
				return circuitbreaker.ErrCircuitOpen
			}
			return ping(ctx)
		})
	}

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.AllowedOrigins = cfg.HTTP.CORSOrigins
	httpConfig.RateLimitPerSecond = cfg.HTTP.RateLimit
	httpConfig.EnableMetrics = cfg.Observability.MetricsEnabled
	httpConfig.Version = cfg.App.Version

	server := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		Login:                command.NewLoginHandler(authService, log),
		SaveStudent:          command.NewSaveStudentHandler(store.Students, meritCache, log),
		DeleteStudent:        command.NewDeleteStudentHandler(store.Students, meritCache, log),
		RecordResults:        command.NewRecordResultsHandler(store.Students, store.Results, meritCache, log),
		SaveResult:           command.NewSaveResultHandler(store.Students, store.Results, meritCache, log),
		MarkAttendance:       command.NewMarkAttendanceHandler(store.Students, store.Attendance, log),
		SaveTimetableEntry:   command.NewSaveTimetableEntryHandler(store.Timetable, log),
		DeleteTimetableEntry: command.NewDeleteTimetableEntryHandler(store.Timetable),
		ListStudents:         query.NewListStudentsHandler(store.Students),
		GetResults:           query.NewGetResultsHandler(store.Students, store.Results),
		GetMeritList:         query.NewGetMeritListHandler(store.Students, store.Results, meritCache, observer, log),
		GetSubjectToppers:    query.NewGetSubjectToppersHandler(store.Students, store.Results, observer),
		GetReportCard:        query.NewGetReportCardHandler(store.Students, store.Results),
		GetAttendance:        query.NewGetAttendanceHandler(store.Students, store.Attendance),
		GetTimetable:         query.NewGetTimetableHandler(store.Timetable),
		GetDashboard:         query.NewGetDashboardHandler(store.Students, store.Results, store.Attendance),
		Auth:                 authService,
		Metrics:              metrics,
		Logger:               log,
		HealthChecker:        health,
	})

	errCh := server.StartAsync()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err, ok := <-errCh:
		if ok && err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	}

	log.Info("starting graceful shutdown", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// connectRedis dials the ranking cache, retrying while it boots.
func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Cache, error) {
	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.DialTimeout = cfg.Redis.DialTimeout

	retrier := retry.StartupRetrier(func(attempt int, err error, delay time.Duration) {
		log.Warn("redis not ready, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})

	var cache *redis.Cache
	err := retrier.Do(ctx, func(context.Context) error {
		c, err := redis.NewCache(redisCfg)
		if err != nil {
			return err
		}
		cache = c
		return nil
	})
	return cache, err
}
