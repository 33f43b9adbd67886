package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
	DriverMemory   = "memory"
)

// Config captures all runtime configuration derived from environment variables
// and an optional .env file in the working directory.
type Config struct {
	Port              string
	StoreDriver       string
	DBURL             string
	BoltPath          string
	TMDBURL           string
	TMDBAPIKey        string
	TMDBTimeoutSecs   int
	ImageBaseURL      string
	ReadTimeoutSecs   int
	WriteTimeoutSecs  int
	IdleTimeoutSecs   int
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int
	LogLevel          string
	CacheWarmSchedule string
}

// Load reads configuration, applying defaults and validation.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// .env is optional
	_ = v.ReadInConfig()

	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("BOLT_PATH", "moviegrid.db")
	v.SetDefault("TMDB_URL", "https://api.themoviedb.org/3")
	v.SetDefault("TMDB_TIMEOUT_SECS", 5)
	v.SetDefault("IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_CONN_IDLE_SECS", 300)
	v.SetDefault("DB_MAX_CONN_LIFETIME_SECS", 3600)
	v.SetDefault("DB_CONN_TIMEOUT_SECS", 10)
	v.SetDefault("DB_STATEMENT_CACHE_CAPACITY", 256)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := Config{
		Port:              v.GetString("PORT"),
		StoreDriver:       strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		DBURL:             v.GetString("DB_URL"),
		BoltPath:          v.GetString("BOLT_PATH"),
		TMDBURL:           v.GetString("TMDB_URL"),
		TMDBAPIKey:        v.GetString("TMDB_API_KEY"),
		TMDBTimeoutSecs:   v.GetInt("TMDB_TIMEOUT_SECS"),
		ImageBaseURL:      strings.TrimRight(v.GetString("IMAGE_BASE_URL"), "/"),
		ReadTimeoutSecs:   v.GetInt("SERVER_READ_TIMEOUT"),
		WriteTimeoutSecs:  v.GetInt("SERVER_WRITE_TIMEOUT"),
		IdleTimeoutSecs:   v.GetInt("SERVER_IDLE_TIMEOUT"),
		DBMaxConns:        v.GetInt("DB_MAX_CONNS"),
		DBMinConns:        v.GetInt("DB_MIN_CONNS"),
		DBMaxIdleSecs:     v.GetInt("DB_MAX_CONN_IDLE_SECS"),
		DBMaxLifeSecs:     v.GetInt("DB_MAX_CONN_LIFETIME_SECS"),
		DBConnTimeoutSecs: v.GetInt("DB_CONN_TIMEOUT_SECS"),
		DBStatementCache:  v.GetInt("DB_STATEMENT_CACHE_CAPACITY"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		CacheWarmSchedule: strings.TrimSpace(v.GetString("CACHE_WARM_SCHEDULE")),
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required")
		}
	case DriverBolt:
		if cfg.BoltPath == "" {
			return Config{}, fmt.Errorf("BOLT_PATH is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be one of postgres, bolt, memory")
	}

	if cfg.TMDBURL == "" {
		return Config{}, fmt.Errorf("TMDB_URL is required")
	}
	if cfg.TMDBTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

// RequireRemote checks the settings needed to call upstream. Load does not
// enforce them so that cache-only commands work without credentials.
func (c Config) RequireRemote() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	return nil
}
