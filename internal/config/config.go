package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "fleetenergy/libs/config"
)

// HTTPConfig holds the listen settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"TELEMETRY_HTTP_PORT"`
}

// DatabaseConfig holds the Postgres settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"TELEMETRY_POSTGRES_DSN"`
}

// RedisConfig holds the status cache settings.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"TELEMETRY_REDIS_ADDR"`
	Password string `yaml:"password" env:"TELEMETRY_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"TELEMETRY_REDIS_DB"`
	TTL      int    `yaml:"ttlSeconds" env:"TELEMETRY_REDIS_TTL"`
}

// AuthConfig holds the optional API gate. An empty secret leaves the API open.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret" env:"TELEMETRY_AUTH_JWT_SECRET"`
}

// Config defines telemetry service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
}

// Load reads configuration via the shared helper.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP:  HTTPConfig{Port: "8080"},
		Redis: RedisConfig{Addr: "localhost:6379", TTL: 3600},
	}

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// StatusTTL returns the cache entry lifetime.
func (c *Config) StatusTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}
