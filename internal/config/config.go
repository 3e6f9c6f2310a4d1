package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Виды источника данных
const (
	DatasourcePostgres = "postgres"
	DatasourceMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Datasource DatasourceConfig `toml:"datasource"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Redis      RedisConfig      `toml:"redis"`
	Line       LineConfig       `toml:"line"`
	Kafka      KafkaConfig      `toml:"kafka"`
	Admin      AdminConfig      `toml:"admin"`
	Booking    BookingConfig    `toml:"booking"`
}

// ServerConfig настройки HTTP сервера. Таймауты в секундах.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки Postgres
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

// DatasourceConfig выбор хранилища, читается один раз при старте
type DatasourceConfig struct {
	Kind         string `toml:"kind"`
	SeedFixtures bool   `toml:"seed_fixtures"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig кэш материализованных слотов
type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	SlotsTTLSeconds int    `toml:"slots_ttl_seconds"`
}

// SlotsTTL время жизни материализованного дня
func (c RedisConfig) SlotsTTL() time.Duration {
	return time.Duration(c.SlotsTTLSeconds) * time.Second
}

// LineConfig LINE Messaging API
type LineConfig struct {
	Enabled            bool    `toml:"enabled"`
	BaseURL            string  `toml:"base_url"`
	ChannelAccessToken string  `toml:"channel_access_token"`
	Timeout            int     `toml:"timeout"` // секунды
	RatePerSecond      float64 `toml:"rate_per_second"`
	Burst              int     `toml:"burst"`
}

// KafkaConfig поток событий бронирований
type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// AdminConfig доступ персонала
type AdminConfig struct {
	APIKey string `toml:"api_key"`
}

// BookingConfig правила бронирования и значения расписания по умолчанию
type BookingConfig struct {
	Timezone            string `toml:"timezone"`
	MaxAdvanceDays      int    `toml:"max_advance_days"`
	DefaultOpenTime     string `toml:"default_open_time"`
	DefaultCloseTime    string `toml:"default_close_time"`
	DefaultSlotDuration int    `toml:"default_slot_duration"`
	DefaultCapacity     int    `toml:"default_capacity"`
}

// ScheduleDefaults значения для дней, открытых переопределением без правила
func (c BookingConfig) ScheduleDefaults() domain.ScheduleDefaults {
	return domain.ScheduleDefaults{
		OpenTime:            types.TimeString(c.DefaultOpenTime),
		CloseTime:           types.TimeString(c.DefaultCloseTime),
		SlotDurationMinutes: c.DefaultSlotDuration,
		Capacity:            c.DefaultCapacity,
	}
}

// Window окно бронирования в часовом поясе клиники
func (c BookingConfig) Window() (domain.BookingWindow, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return domain.BookingWindow{}, fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalid, c.Timezone, err)
	}
	return domain.BookingWindow{Location: loc, MaxAdvanceDays: c.MaxAdvanceDays}, nil
}

// Load читает .env (если есть), затем TOML файл и переменные окружения с секретами
func Load(path string) (*Config, error) {
	// Отсутствие .env не ошибка
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает конфигурацию из строки (без .env)
func Parse(data string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, от которых зависит запуск
func (c *Config) Validate() error {
	switch c.Datasource.Kind {
	case DatasourcePostgres, DatasourceMemory:
	default:
		return fmt.Errorf("%w: unknown datasource.kind %q", ErrInvalid, c.Datasource.Kind)
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalid, c.Server.HTTPPort)
	}

	open := types.TimeString(c.Booking.DefaultOpenTime)
	closeAt := types.TimeString(c.Booking.DefaultCloseTime)
	if err := open.Validate(); err != nil {
		return fmt.Errorf("%w: booking.default_open_time: %v", ErrInvalid, err)
	}
	if err := closeAt.Validate(); err != nil {
		return fmt.Errorf("%w: booking.default_close_time: %v", ErrInvalid, err)
	}
	if !open.IsBefore(closeAt) {
		return fmt.Errorf("%w: booking.default_open_time must be before default_close_time", ErrInvalid)
	}
	if c.Booking.DefaultSlotDuration < domain.MinSlotDurationMinutes || c.Booking.DefaultSlotDuration > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: booking.default_slot_duration %d out of range", ErrInvalid, c.Booking.DefaultSlotDuration)
	}
	if c.Booking.DefaultCapacity < 1 || c.Booking.DefaultCapacity > domain.MaxCapacity {
		return fmt.Errorf("%w: booking.default_capacity %d out of range", ErrInvalid, c.Booking.DefaultCapacity)
	}
	if c.Booking.MaxAdvanceDays < 0 {
		return fmt.Errorf("%w: booking.max_advance_days must not be negative", ErrInvalid)
	}
	if _, err := c.Booking.Window(); err != nil {
		return err
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("%w: kafka.brokers and kafka.topic are required when kafka is enabled", ErrInvalid)
	}
	if c.Line.Enabled && c.Line.ChannelAccessToken == "" {
		return fmt.Errorf("%w: line.channel_access_token is required when line is enabled", ErrInvalid)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Datasource: DatasourceConfig{Kind: DatasourcePostgres},
		Logs:       LogsConfig{Level: "info"},
		Metrics:    MetricsConfig{Path: "/metrics", ServiceName: "counseling-booking-service"},
		Redis:      RedisConfig{Addr: "localhost:6379", SlotsTTLSeconds: 600},
		Line: LineConfig{
			BaseURL:       "https://api.line.me",
			Timeout:       10,
			RatePerSecond: 10,
			Burst:         20,
		},
		Kafka: KafkaConfig{Topic: "booking-events"},
		Booking: BookingConfig{
			Timezone:            "Asia/Bangkok",
			MaxAdvanceDays:      domain.DefaultMaxAdvanceDays,
			DefaultOpenTime:     domain.DefaultOpenTime,
			DefaultCloseTime:    domain.DefaultCloseTime,
			DefaultSlotDuration: domain.DefaultSlotDurationMinutes,
			DefaultCapacity:     domain.DefaultCapacity,
		},
	}
}

// applyEnv секреты из окружения перекрывают файл
func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"DB_PASSWORD":               &cfg.Database.Password,
		"LINE_CHANNEL_ACCESS_TOKEN": &cfg.Line.ChannelAccessToken,
		"ADMIN_API_KEY":             &cfg.Admin.APIKey,
		"REDIS_PASSWORD":            &cfg.Redis.Password,
	}
	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*target = v
		}
	}
}
