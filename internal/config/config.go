package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server   ServerConfig   `toml:"server"`
	LegacyDB LegacyDBConfig `toml:"legacy_db"`
	ModernDB ModernDBConfig `toml:"modern_db"`
	Sync     SyncConfig     `toml:"sync"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LegacyDBConfig подключение к легаси-хранилищу (MySQL)
// Сервис обращается к нему строго read-only
type LegacyDBConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для go-sql-driver/mysql
// parseTime=true нужен для сканирования DATE/DATETIME в time.Time
func (c LegacyDBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// ModernDBConfig подключение к современному хранилищу (PostgreSQL)
type ModernDBConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (c ModernDBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// SyncConfig настройки миграционного batch-джоба
type SyncConfig struct {
	// Token pre-shared bearer токен для эндпоинтов синхронизации
	Token string `toml:"token"`
	// HorizonDays окно выборки: сегодня + HorizonDays вперед
	HorizonDays int `toml:"horizon_days"`
	// BatchTimeout бюджет времени одного прогона в секундах
	BatchTimeout int `toml:"batch_timeout"`
	// MaxConcurrency ограничение параллельных миграций записей
	MaxConcurrency int `toml:"max_concurrency"`
	// Cron опциональное cron-выражение для внутреннего запуска
	// Пустая строка - запуск только внешним планировщиком через HTTP
	Cron string `toml:"cron"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load читает и валидирует конфигурацию из toml-файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port is required")
	}
	if c.LegacyDB.Host == "" || c.LegacyDB.DBName == "" {
		return fmt.Errorf("config: legacy_db.host and legacy_db.dbname are required")
	}
	if c.ModernDB.Host == "" || c.ModernDB.DBName == "" {
		return fmt.Errorf("config: modern_db.host and modern_db.dbname are required")
	}
	if c.Sync.Token == "" {
		return fmt.Errorf("config: sync.token is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Sync.HorizonDays <= 0 {
		c.Sync.HorizonDays = 7
	}
	if c.Sync.BatchTimeout <= 0 {
		c.Sync.BatchTimeout = 60
	}
	if c.Sync.MaxConcurrency <= 0 {
		c.Sync.MaxConcurrency = 4
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "vrb-sync-service"
	}
}
