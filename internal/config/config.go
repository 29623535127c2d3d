package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotTTL   time.Duration

	AMQPURL        string // пусто - события не публикуются
	EventsExchange string

	MigrationsPath     string
	Timezone           string
	FetchTimeout       time.Duration
	AutoRejectInterval time.Duration
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Отсутствие .env не ошибка
	_ = godotenv.Load(".env")

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    getEnv("ENV", "development"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		EventsExchange: getEnv("EVENTS_EXCHANGE", "campusroom.events"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		Timezone:       getEnv("TIMEZONE", "Local"),
	}

	var errs []error

	if cfg.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required but not set"))
	}
	if cfg.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required but not set"))
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.SnapshotTTL, err = getDuration("SNAPSHOT_TTL", 7*24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 5*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.AutoRejectInterval, err = getDuration("AUTO_REJECT_INTERVAL", time.Hour); err != nil {
		errs = append(errs, err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Location часовой пояс кампуса
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}
