package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	GazetteerSourceFile     = "file"
	GazetteerSourcePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Gazetteer GazetteerConfig
	Route     RouteConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SearchCacheTTL time.Duration
	StatsCacheTTL  time.Duration
}

type LogConfig struct {
	Level string
}

// GazetteerConfig - откуда загружать справочник локаций
type GazetteerConfig struct {
	Source string
	Path   string
}

// RouteConfig - параметры расчёта маршрутов
type RouteConfig struct {
	RewardFactor       float64
	MinDurationMinutes int
	EventsEnabled      bool
	EventsTimeout      time.Duration
}

type WorkerConfig struct {
	Enabled        bool
	ConsumerGroup  string
	BatchSize      int
	PendingMinIdle time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SearchCacheTTL: time.Duration(v.GetInt("SEARCH_CACHE_TTL")) * time.Second,
			StatsCacheTTL:  time.Duration(v.GetInt("STATS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Gazetteer: GazetteerConfig{
			Source: strings.ToLower(strings.TrimSpace(v.GetString("GAZETTEER_SOURCE"))),
			Path:   v.GetString("GAZETTEER_PATH"),
		},
		Route: RouteConfig{
			RewardFactor:       v.GetFloat64("ROUTE_REWARD_FACTOR"),
			MinDurationMinutes: v.GetInt("ROUTE_MIN_DURATION_MINUTES"),
			EventsEnabled:      v.GetBool("ROUTE_EVENTS_ENABLED"),
			EventsTimeout:      time.Duration(v.GetInt("ROUTE_EVENTS_TIMEOUT_MS")) * time.Millisecond,
		},
		Worker: WorkerConfig{
			Enabled:        v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:  v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:      v.GetInt("WORKER_BATCH_SIZE"),
			PendingMinIdle: time.Duration(v.GetInt("WORKER_PENDING_MIN_IDLE")) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SEARCH_CACHE_TTL", 3600)
	v.SetDefault("STATS_CACHE_TTL", 60)

	v.SetDefault("GAZETTEER_SOURCE", GazetteerSourceFile)

	v.SetDefault("ROUTE_REWARD_FACTOR", 2.0)
	v.SetDefault("ROUTE_MIN_DURATION_MINUTES", 5)
	v.SetDefault("ROUTE_EVENTS_ENABLED", false)
	v.SetDefault("ROUTE_EVENTS_TIMEOUT_MS", 200)

	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONSUMER_GROUP", "route-stats-workers")
	v.SetDefault("WORKER_BATCH_SIZE", 20)
	v.SetDefault("WORKER_PENDING_MIN_IDLE", 30)
}

func (c *Config) validate() error {
	switch c.Gazetteer.Source {
	case GazetteerSourceFile, GazetteerSourcePostgres:
	default:
		return fmt.Errorf("unsupported GAZETTEER_SOURCE %q", c.Gazetteer.Source)
	}
	if c.Route.RewardFactor < 0 {
		return fmt.Errorf("ROUTE_REWARD_FACTOR must not be negative, got %v", c.Route.RewardFactor)
	}
	if c.Route.MinDurationMinutes < 0 {
		return fmt.Errorf("ROUTE_MIN_DURATION_MINUTES must not be negative, got %d", c.Route.MinDurationMinutes)
	}
	if c.Worker.BatchSize <= 0 {
		c.Worker.BatchSize = 20
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN is the key/value connection string understood by pgx and lib/pq.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
