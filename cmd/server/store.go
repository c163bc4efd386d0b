package main

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolhub/school-admin/config"
	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/attendance"
	"github.com/schoolhub/school-admin/internal/domain/auth"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/internal/domain/timetable"
	"github.com/schoolhub/school-admin/internal/infrastructure/persistence/kvstore"
	"github.com/schoolhub/school-admin/internal/infrastructure/persistence/postgres"
	"github.com/schoolhub/school-admin/pkg/logger"
	"github.com/schoolhub/school-admin/pkg/retry"
)

// recordStore is the selected backend behind the repository contracts.
type recordStore struct {
	Students   student.Repository
	Results    academic.ResultRepository
	Attendance attendance.Repository
	Timetable  timetable.Repository
	Users      auth.UserRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping probes the backend for health checks.
func (s *recordStore) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend.
func (s *recordStore) Close() error {
	return s.close()
}

// openStore opens the backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*recordStore, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		log.Warn("using in-memory record store, data is lost on restart")
		return kvRecordStore(kvstore.NewMemoryBackend()), nil

	case config.StoreBadger:
		backend, err := kvstore.OpenBadger(kvstore.BadgerConfig{Path: cfg.Store.BadgerPath})
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		log.Info("badger record store opened", logger.String("path", cfg.Store.BadgerPath))
		return kvRecordStore(backend), nil

	case config.StorePostgres:
		return openPostgres(ctx, cfg, log)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func kvRecordStore(backend kvstore.Backend) *recordStore {
	repos := kvstore.NewRepositories(backend)
	return &recordStore{
		Students:   repos.Students,
		Results:    repos.Results,
		Attendance: repos.Attendance,
		Timetable:  repos.Timetable,
		Users:      repos.Users,
		ping:       backend.Ping,
		close:      backend.Close,
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*recordStore, error) {
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = int32(cfg.Database.MaxConns)
	pgCfg.MinConns = int32(cfg.Database.MinConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	retrier := retry.StartupRetrier(func(attempt int, err error, delay time.Duration) {
		log.Warn("database not ready, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})

	var conn *postgres.Connection
	err := retrier.Do(ctx, func(ctx context.Context) error {
		if _, err := pgCfg.PoolConfig(); err != nil {
			return retry.Permanent(err)
		}
		c, err := postgres.NewConnection(ctx, pgCfg)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		applied, err := postgres.NewMigrator(conn).Migrate(ctx)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("migrations completed", logger.Count(applied))
	}

	repos := postgres.NewRepositories(conn)
	return &recordStore{
		Students:   repos.Students,
		Results:    repos.Results,
		Attendance: repos.Attendance,
		Timetable:  repos.Timetable,
		Users:      repos.Users,
		ping:       conn.Ping,
		close: func() error {
			conn.Close()
			return nil
		},
	}, nil
}
