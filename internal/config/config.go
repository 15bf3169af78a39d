package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Переменные окружения, переопределяющие значения из файла
const (
	envDBPassword    = "DB_PASSWORD"
	envRedisPassword = "REDIS_PASSWORD"
	envKafkaBrokers  = "KAFKA_BROKERS"
)

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Booking       BookingConfig       `toml:"booking"`
	Cache         CacheConfig         `toml:"cache"`
	Notifications NotificationsConfig `toml:"notifications"`
	UserService   UserServiceConfig   `toml:"user_service"`
}

// ServerConfig таймауты задаются в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"required,min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=0"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=0"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=0"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=0"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"required,min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"` // пусто = stdout
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"required_if=Enabled true,omitempty,startswith=/"`
	ServiceName string `toml:"service_name" validate:"required_if=Enabled true"`
}

// BookingConfig параметры расчёта слотов и транзакции записи
type BookingConfig struct {
	DefaultGranularityMinutes int `toml:"default_granularity_minutes" validate:"min=1,max=1440"`
	LockTimeoutMs             int `toml:"lock_timeout_ms" validate:"min=0"`
	TxTimeoutMs               int `toml:"tx_timeout_ms" validate:"min=0"`
	MaxRetries                int `toml:"max_retries" validate:"min=0,max=10"`
}

func (c BookingConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

func (c BookingConfig) TxTimeout() time.Duration {
	return time.Duration(c.TxTimeoutMs) * time.Millisecond
}

// CacheConfig кэш расписания в Redis
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr" validate:"required_if=Enabled true"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"min=0"`
	TTL      int    `toml:"ttl"` // секунды
	Prefix   string `toml:"prefix"`
}

func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// NotificationsConfig driver: none | kafka | webhook
type NotificationsConfig struct {
	Driver     string   `toml:"driver" validate:"oneof=none kafka webhook"`
	Brokers    []string `toml:"brokers" validate:"required_if=Driver kafka"`
	Topic      string   `toml:"topic" validate:"required_if=Driver kafka"`
	WebhookURL string   `toml:"webhook_url" validate:"required_if=Driver webhook,omitempty,url"`
	Timeout    int      `toml:"timeout"` // секунды
}

func (c NotificationsConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// UserServiceConfig источник контактов авторизованных клиентов
type UserServiceConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url" validate:"required_if=Enabled true,omitempty,url"`
	Timeout int    `toml:"timeout"` // секунды
}

func (c UserServiceConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Load читает TOML файл, подмешивает .env и переменные окружения, проверяет результат
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment_service",
		},
		Booking: BookingConfig{
			DefaultGranularityMinutes: 15,
			LockTimeoutMs:             2000,
			TxTimeoutMs:               5000,
			MaxRetries:                3,
		},
		Cache: CacheConfig{
			Addr:   "localhost:6379",
			TTL:    60,
			Prefix: "appt",
		},
		Notifications: NotificationsConfig{
			Driver:  "none",
			Topic:   "appointments.events",
			Timeout: 5,
		},
		UserService: UserServiceConfig{
			Timeout: 2,
		},
	}
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envDBPassword); ok {
		cfg.Database.Password = v
	}
	if v, ok := os.LookupEnv(envRedisPassword); ok {
		cfg.Cache.Password = v
	}
	if v, ok := os.LookupEnv(envKafkaBrokers); ok && v != "" {
		brokers := make([]string, 0)
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Notifications.Brokers = brokers
	}
}
