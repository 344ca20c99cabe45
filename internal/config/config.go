// Package config загрузка конфигурации сервиса из TOML с переопределением через окружение
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Redis          RedisConfig          `toml:"redis"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	CatalogService CatalogServiceConfig `toml:"catalog_service"`
	Engine         EngineConfig         `toml:"engine"`
	RateLimit      RateLimitConfig      `toml:"rate_limit"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig параметры redis для кэша заполненных дней
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CatalogServiceConfig параметры клиента каталога услуг
type CatalogServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// EngineConfig параметры движка доступности
type EngineConfig struct {
	DayCapacityCeiling   int `toml:"day_capacity_ceiling"` // <= 0 отключает признак заполненности
	CommitTimeoutMs      int `toml:"commit_timeout_ms"`
	MaxRangeDays         int `toml:"max_range_days"`
	FullDatesCacheTTLSec int `toml:"full_dates_cache_ttl_sec"`
}

// CommitTimeout дедлайн транзакции бронирования
func (c EngineConfig) CommitTimeout() time.Duration {
	return time.Duration(c.CommitTimeoutMs) * time.Millisecond
}

// FullDatesCacheTTL время жизни записи кэша заполненных дней
func (c EngineConfig) FullDatesCacheTTL() time.Duration {
	return time.Duration(c.FullDatesCacheTTLSec) * time.Second
}

// RateLimitConfig ограничение частоты запросов по IP
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "availability",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "availability-service",
		},
		CatalogService: CatalogServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Engine: EngineConfig{
			DayCapacityCeiling:   8,
			CommitTimeoutMs:      3000,
			MaxRangeDays:         62,
			FullDatesCacheTTLSec: 300,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
	}
}

// Load читает конфигурацию из файла поверх значений по умолчанию,
// применяет переменные окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("CATALOG_SERVICE_URL", &c.CatalogService.URL)
	setString("LOG_LEVEL", &c.Logs.Level)

	for name, dst := range map[string]*int{
		"DB_PORT":              &c.Database.Port,
		"HTTP_PORT":            &c.Server.HTTPPort,
		"DAY_CAPACITY_CEILING": &c.Engine.DayCapacityCeiling,
		"COMMIT_TIMEOUT_MS":    &c.Engine.CommitTimeoutMs,
	} {
		if err := setInt(name, dst); err != nil {
			return err
		}
	}

	return nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	case c.Database.Host == "" || c.Database.DBName == "":
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	case c.Redis.Addr == "":
		return fmt.Errorf("%w: redis.addr is required", ErrInvalidConfig)
	case c.CatalogService.URL == "":
		return fmt.Errorf("%w: catalog_service.url is required", ErrInvalidConfig)
	case c.Engine.CommitTimeoutMs <= 0:
		return fmt.Errorf("%w: engine.commit_timeout_ms must be positive", ErrInvalidConfig)
	case c.Engine.MaxRangeDays <= 0:
		return fmt.Errorf("%w: engine.max_range_days must be positive", ErrInvalidConfig)
	case c.Engine.FullDatesCacheTTLSec <= 0:
		return fmt.Errorf("%w: engine.full_dates_cache_ttl_sec must be positive", ErrInvalidConfig)
	case c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0):
		return fmt.Errorf("%w: rate_limit.rps and rate_limit.burst must be positive", ErrInvalidConfig)
	}
	return nil
}

func setString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func setInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, name, v)
	}
	*dst = n
	return nil
}
