// Package config loads service configuration from a yaml file and BISTRO_* env vars.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"bistro/internal/infrastructure/storage/postgres"
	"bistro/pkg/logger"
)

// EnvPrefix is prepended to every environment override, e.g. BISTRO_DATABASE_DSN.
const EnvPrefix = "BISTRO"

// Sequence backends.
const (
	SequencePostgres = "postgres"
	SequenceRedis    = "redis"
	SequenceMemory   = "memory"
)

// Config is the full service configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Sequence    SequenceConfig    `mapstructure:"sequence" validate:"required"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Logging     LoggingConfig     `mapstructure:"logging" validate:"required"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn" validate:"required"`
	ApplicationName string        `mapstructure:"application_name"`
	MaxConns        int32         `mapstructure:"max_conns" validate:"gte=1"`
	MinConns        int32         `mapstructure:"min_conns" validate:"gte=0,ltefield=MaxConns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	// AutoMigrate applies the embedded schema at startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// SequenceConfig selects where order and bill counters live.
type SequenceConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=postgres redis memory"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type IdempotencyConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.application_name", "bistro")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("sequence.backend", SequencePostgres)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "bistro:seq:")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl", 24*time.Hour)
	v.SetDefault("idempotency.cleanup_interval", 10*time.Minute)
}

// Load reads configuration. An empty file searches ./config.yaml, ./config/config.yaml
// and /etc/bistro/config.yaml; a missing file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/bistro")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Sequence.Backend == SequenceRedis && c.Redis.Addr == "" {
		return errors.New("invalid config: redis.addr is required for the redis sequence backend")
	}
	return nil
}

// Pool converts the database section to pool settings.
func (c DatabaseConfig) Pool() postgres.PoolConfig {
	pc := postgres.DefaultPoolConfig(c.DSN)
	if c.ApplicationName != "" {
		pc.ApplicationName = c.ApplicationName
	}
	pc.MaxConns = c.MaxConns
	pc.MinConns = c.MinConns
	if c.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = c.MaxConnLifetime
	}
	if c.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = c.MaxConnIdleTime
	}
	return pc
}

// Logger converts the logging section to logger settings.
func (c LoggingConfig) Logger() logger.Config {
	return logger.Config{Level: c.Level, Development: c.Development}
}
