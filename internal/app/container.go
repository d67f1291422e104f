// Package app wires configuration, storage, messaging, and the application
// services into one composition root shared by the CLI and the worker.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/monkmode/internal/energy/application/services"
	energycache "github.com/felixgeelhaar/monkmode/internal/energy/infrastructure/cache"
	energypersistence "github.com/felixgeelhaar/monkmode/internal/energy/infrastructure/persistence"
	planningservices "github.com/felixgeelhaar/monkmode/internal/planning/application/services"
	planningpersistence "github.com/felixgeelhaar/monkmode/internal/planning/infrastructure/persistence"
	priorityservices "github.com/felixgeelhaar/monkmode/internal/priority/application/services"
	priority "github.com/felixgeelhaar/monkmode/internal/priority/domain"
	prioritypersistence "github.com/felixgeelhaar/monkmode/internal/priority/infrastructure/persistence"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/monkmode/pkg/config"
)

// Container holds the wired application. Close releases every connection it
// opened.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	DB        database.Connection
	Publisher eventbus.Publisher

	Goals      *planningpersistence.GoalRepository
	Periods    *planningpersistence.PeriodRepository
	Objectives *planningpersistence.ObjectiveRepository
	Activities *planningpersistence.ActivityRepository

	ActivityService *planningservices.ActivityService
	PeriodService   *planningservices.PeriodService

	Predictor       *services.Predictor
	InsightsService *services.InsightsService
	RecoveryService *services.RecoveryService
	LogService      *services.LogService

	Engine *priorityservices.Engine
	Sweep  *Sweep

	insightCache *energycache.InsightCache
}

// New builds the container: database and schema first, then the optional
// Redis and RabbitMQ attachments, then repositories and services. Redis and
// RabbitMQ being down only costs their feature, not startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	dbCfg, err := databaseConfig(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := database.Connect(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.DB = conn

	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	c.Publisher = eventbus.NewNoopPublisher()
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, domain events stay in process",
				slog.String("error", err.Error()))
		} else {
			c.Publisher = publisher
		}
	}

	var insightCache services.InsightCache
	if cfg.RedisURL != "" {
		cache, err := energycache.NewInsightCache(cfg.RedisURL, cfg.InsightCacheTTL, logger)
		if err != nil {
			logger.Warn("redis unavailable, insight caching disabled",
				slog.String("error", err.Error()))
		} else {
			c.insightCache = cache
			insightCache = cache
		}
	}

	c.Goals = planningpersistence.NewGoalRepository(conn)
	c.Periods = planningpersistence.NewPeriodRepository(conn)
	c.Objectives = planningpersistence.NewObjectiveRepository(conn)
	c.Activities = planningpersistence.NewActivityRepository(conn)

	energyLogs := energypersistence.NewEnergyLogRepository(conn)
	predictions := energypersistence.NewPredictionRepository(conn)
	scores := prioritypersistence.NewScoreRepository(conn)
	patterns := prioritypersistence.NewPatternRepository(conn)

	c.ActivityService = planningservices.NewActivityService(c.Activities, c.Publisher, logger)
	c.PeriodService = planningservices.NewPeriodService(c.Periods, c.Publisher, logger)

	c.Predictor = services.NewPredictor(energyLogs, predictions, c.Activities, logger)
	c.InsightsService = services.NewInsightsService(energyLogs, insightCache, logger)
	c.RecoveryService = services.NewRecoveryService(energyLogs, logger)
	c.LogService = services.NewLogService(energyLogs, c.Activities, c.Publisher, logger)

	c.Engine = priorityservices.NewEngine(c.Goals, c.Periods, c.Objectives, c.Activities,
		scores, patterns, c.Predictor, priority.DefaultEngineConfig(), c.Publisher, logger)
	c.Sweep = NewSweep(c.Periods, c.Predictor, c.Engine, cfg.SweepHoursAhead, logger)

	return c, nil
}

// Close releases the container's connections in reverse acquisition order.
func (c *Container) Close() error {
	var firstErr error
	if c.insightCache != nil {
		if err := c.insightCache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// databaseConfig resolves the driver from DATABASE_URL, defaulting to a local
// SQLite file.
func databaseConfig(cfg *config.Config) (database.Config, error) {
	driver, err := database.DetectDriver(cfg.DatabaseURL)
	if err != nil {
		return database.Config{}, err
	}

	dbCfg := database.Config{Driver: driver}
	switch driver {
	case database.DriverPostgres:
		dbCfg.PostgresURL = cfg.DatabaseURL
	case database.DriverSQLite:
		dbCfg.SQLitePath = sqlitePath(cfg)
	}
	return dbCfg, nil
}

func sqlitePath(cfg *config.Config) string {
	if cfg.SQLitePath != "" {
		return cfg.SQLitePath
	}
	if path := strings.TrimPrefix(cfg.DatabaseURL, "sqlite://"); path != "" {
		return path
	}
	return "monkmode.db"
}
