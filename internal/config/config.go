package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, например APPOINTMENTS_DATABASE_PASSWORD
const EnvPrefix = "APPOINTMENTS"

// Драйверы хранилища
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Драйверы уведомлений
const (
	NotifierDriverNone  = "none"
	NotifierDriverLog   = "log"
	NotifierDriverRedis = "redis"
	NotifierDriverAMQP  = "amqp"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server          Server          `toml:"server"`
	Database        Database        `toml:"database"`
	Logs            Logs            `toml:"logs"`
	Metrics         Metrics         `toml:"metrics"`
	Storage         Storage         `toml:"storage"`
	Scheduling      Scheduling      `toml:"scheduling"`
	CatalogCache    CatalogCache    `toml:"catalog_cache" envconfig:"CATALOG_CACHE"`
	CustomerService CustomerService `toml:"customer_service" envconfig:"CUSTOMER_SERVICE"`
	Notifications   Notifications   `toml:"notifications"`
	RateLimit       RateLimit       `toml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// Server настройки HTTP сервера (таймауты в секундах)
type Server struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  int `toml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// Database настройки PostgreSQL
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" envconfig:"DBNAME"`
	SSLMode         string `toml:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
	TxMaxRetries    int    `toml:"tx_max_retries" envconfig:"TX_MAX_RETRIES"`
}

// DSN строка подключения для lib/pq
func (d Database) DSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", d.Host),
		fmt.Sprintf("port=%d", d.Port),
		fmt.Sprintf("user=%s", d.User),
		fmt.Sprintf("dbname=%s", d.DBName),
		fmt.Sprintf("sslmode=%s", d.SSLMode),
	}
	if d.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", d.Password))
	}
	return strings.Join(parts, " ")
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки prometheus
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name" envconfig:"SERVICE_NAME"`
	Path        string `toml:"path"`
}

// Storage выбор хранилища: postgres или memory (для локального запуска)
type Storage struct {
	Driver   string `toml:"driver"`
	SeedFile string `toml:"seed_file" envconfig:"SEED_FILE"` // каталог для memory; пусто - без данных
}

// Scheduling значения политики бронирования по умолчанию
type Scheduling struct {
	SlotGranularityMinutes int    `toml:"slot_granularity_minutes" envconfig:"SLOT_GRANULARITY_MINUTES"`
	Timezone               string `toml:"timezone"`
}

// Location часовой пояс бизнеса; пустое значение = UTC
func (s Scheduling) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// CatalogCache кеш справочника сотрудников и услуг (в секундах)
type CatalogCache struct {
	Enabled         bool `toml:"enabled"`
	TTL             int  `toml:"ttl"`
	CleanupInterval int  `toml:"cleanup_interval" envconfig:"CLEANUP_INTERVAL"`
}

// CustomerService справочник клиентов; пустой URL отключает интеграцию
type CustomerService struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Notifications приёмник событий бронирования
type Notifications struct {
	Driver  string `toml:"driver"`
	Timeout int    `toml:"timeout"`
	Redis   Redis  `toml:"redis"`
	AMQP    AMQP   `toml:"amqp"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

type AMQP struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// RateLimit ограничение запросов на организацию
type RateLimit struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Burst             int     `toml:"burst"`
}

// Load читает TOML файл, применяет переменные окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefaultInt(&c.Server.HTTPPort, 8080)
	setDefaultInt(&c.Server.ReadTimeout, 10)
	setDefaultInt(&c.Server.WriteTimeout, 10)
	setDefaultInt(&c.Server.IdleTimeout, 60)
	setDefaultInt(&c.Server.ShutdownTimeout, 15)
	setDefaultInt(&c.Server.RequestTimeout, 5)

	setDefaultString(&c.Database.Host, "localhost")
	setDefaultInt(&c.Database.Port, 5432)
	setDefaultString(&c.Database.SSLMode, "disable")
	setDefaultInt(&c.Database.MaxOpenConns, 25)
	setDefaultInt(&c.Database.MaxIdleConns, 5)
	setDefaultInt(&c.Database.ConnMaxLifetime, 300)
	setDefaultInt(&c.Database.TxMaxRetries, 3)

	setDefaultString(&c.Logs.Level, "info")

	setDefaultString(&c.Metrics.ServiceName, "appointment_service")
	setDefaultString(&c.Metrics.Path, "/metrics")

	setDefaultString(&c.Storage.Driver, StorageDriverPostgres)

	setDefaultInt(&c.Scheduling.SlotGranularityMinutes, 15)

	setDefaultInt(&c.CatalogCache.TTL, 60)
	setDefaultInt(&c.CatalogCache.CleanupInterval, 300)

	setDefaultInt(&c.CustomerService.Timeout, 3)

	setDefaultString(&c.Notifications.Driver, NotifierDriverLog)
	setDefaultInt(&c.Notifications.Timeout, 2)
	setDefaultString(&c.Notifications.Redis.Channel, "appointments.events")
	setDefaultString(&c.Notifications.AMQP.Exchange, "appointments")

	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 50
	}
	setDefaultInt(&c.RateLimit.Burst, 100)
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.DBName == "" {
			return fmt.Errorf("%w: database.dbname is required for postgres storage", ErrInvalidConfig)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if g := c.Scheduling.SlotGranularityMinutes; g < 5 || g > 240 {
		return fmt.Errorf("%w: scheduling.slot_granularity_minutes %d", ErrInvalidConfig, g)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}

	switch c.Notifications.Driver {
	case NotifierDriverNone, NotifierDriverLog:
	case NotifierDriverRedis:
		if c.Notifications.Redis.Addr == "" {
			return fmt.Errorf("%w: notifications.redis.addr is required", ErrInvalidConfig)
		}
	case NotifierDriverAMQP:
		if c.Notifications.AMQP.URL == "" {
			return fmt.Errorf("%w: notifications.amqp.url is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notifications.driver %q", ErrInvalidConfig, c.Notifications.Driver)
	}

	return nil
}

func setDefaultInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setDefaultString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
