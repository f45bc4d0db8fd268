package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env               string
	Port              string
	LogLevel          string
	DatabaseURL       string // Postgres DSN; when empty the service runs on SQLite
	SQLitePath        string
	RedisURL          string // optional: request stats, error log, reconcile lock
	CORSOrigin        string // allowed origin suffix, e.g. .example.com
	HealthAdminKey    string
	LowStockThreshold decimal.Decimal
	ReconcileSchedule string // cron spec; "off" in the environment disables the scheduled reconcile
	AutoMigrate       bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SQLITE_PATH", "supplies.db")
	v.SetDefault("LOW_STOCK_THRESHOLD", "10")
	v.SetDefault("RECONCILE_SCHEDULE", "@every 1h")
	v.SetDefault("AUTO_MIGRATE", true)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	threshold, err := decimal.NewFromString(strings.TrimSpace(v.GetString("LOW_STOCK_THRESHOLD")))
	if err != nil {
		return nil, fmt.Errorf("LOW_STOCK_THRESHOLD: %w", err)
	}
	if threshold.IsNegative() {
		return nil, fmt.Errorf("LOW_STOCK_THRESHOLD must be greater than or equal to 0")
	}

	return &Config{
		Env:               v.GetString("APP_ENV"),
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		RedisURL:          v.GetString("REDIS_URL"),
		CORSOrigin:        v.GetString("CORS_ORIGIN"),
		HealthAdminKey:    v.GetString("HEALTH_ADMIN_KEY"),
		LowStockThreshold: threshold,
		ReconcileSchedule: schedule(v.GetString("RECONCILE_SCHEDULE")),
		AutoMigrate:       v.GetBool("AUTO_MIGRATE"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func schedule(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "off") {
		return ""
	}
	return s
}
