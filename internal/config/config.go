package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageJSON     = "json"
	StoragePostgres = "postgres"
)

type Config struct {
	TelegramToken    string        `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN            string        `mapstructure:"DB_DSN"`
	Environment      string        `mapstructure:"ENV"`
	StorageDriver    string        `mapstructure:"STORAGE_DRIVER"`
	DataDir          string        `mapstructure:"DATA_DIR"`
	Timezone         string        `mapstructure:"TIMEZONE"`
	DayOffSessionTTL time.Duration `mapstructure:"DAYOFF_SESSION_TTL"`
	NotifyRetries    uint64        `mapstructure:"NOTIFY_RETRIES"`

	location *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	v := viper.New()

	// Устанавливаем дефолтные значения
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE_DRIVER", StorageJSON)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("TIMEZONE", "Europe/Moscow")
	v.SetDefault("DAYOFF_SESSION_TTL", "15m")
	v.SetDefault("NOTIFY_RETRIES", 3)

	// Ключи без дефолтов нужно привязать явно, иначе Unmarshal их не увидит
	for _, key := range []string{"TELEGRAM_TOKEN", "DB_DSN"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded (storage=%s, env=%s)\n", cfg.StorageDriver, cfg.Environment)

	return cfg, nil
}

func (c *Config) validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))

	switch c.StorageDriver {
	case StorageJSON:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for json storage")
		}
	case StoragePostgres:
		// Проверяем обязательные поля
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.DayOffSessionTTL <= 0 {
		return fmt.Errorf("DAYOFF_SESSION_TTL must be positive, got %s", c.DayOffSessionTTL)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	return nil
}

// Location часовой пояс клиники
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Now текущее время в часовом поясе клиники
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location())
}

// RequireTelegram проверяет, что задан токен бота
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}
