package bootstrap

import (
	"fmt"

	"supplies-backend/internal/app"
	"supplies-backend/internal/config"
	"supplies-backend/internal/infrastructure/cache"
	"supplies-backend/internal/infrastructure/database"
	"supplies-backend/internal/interfaces/router"
	"supplies-backend/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Runtime holds the opened stores and the services built on them.
type Runtime struct {
	Config   *config.Config
	DB       *gorm.DB
	Rdb      *redis.Client
	Services *app.Services
}

// Open connects to the database (Postgres when DATABASE_URL is set, SQLite otherwise)
// and to Redis when REDIS_URL is set, migrating the schema when AutoMigrate is on.
func Open(cfg *config.Config) (*Runtime, error) {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
	} else {
		log.Warn().Str("path", cfg.SQLitePath).Msg("DATABASE_URL not set; using SQLite")
		db, err = database.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	rdb, err := cache.Open(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("open redis: %w", err)
	}
	return &Runtime{Config: cfg, DB: db, Rdb: rdb, Services: app.NewServices(db, rdb)}, nil
}

// Load reads the configuration, sets up logging and opens the runtime.
func Load() (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Env, cfg.LogLevel)
	return Open(cfg)
}

// New builds the HTTP app on a freshly loaded runtime.
func New() (*fiber.App, *Runtime, error) {
	rt, err := Load()
	if err != nil {
		return nil, nil, err
	}
	fapp, err := router.NewApp(rt.Config, rt.DB, rt.Rdb, rt.Services)
	if err != nil {
		rt.Close()
		return nil, nil, err
	}
	return fapp, rt, nil
}

// Close releases the database and Redis connections.
func (rt *Runtime) Close() {
	if rt.Rdb != nil {
		_ = rt.Rdb.Close()
	}
	if sqlDB, err := rt.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
