// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	HTTPServer              `yaml:"http_server"`
	Notification            `yaml:"notification"`
	Sweeper                 `yaml:"sweeper"`
	RabbitMQ                `yaml:"rabbitmq"`
	ServiceToken            `yaml:"service_token"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":3004"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Notification настройки клиента сервиса уведомлений.
// Пустой URL отключает уведомления.
type Notification struct {
	NotificationURL     string        `yaml:"url" env:"NOTIFICATION_SERVICE_URL"`
	NotificationTimeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// Sweeper настройки ежедневной проверки истёкших подписок.
type Sweeper struct {
	RunAt      string `yaml:"run_at" env:"SWEEPER_RUN_AT" env-default:"00:00"`
	Timezone   string `yaml:"timezone" env:"SWEEPER_TIMEZONE" env-default:"UTC"`
	RunOnStart bool   `yaml:"run_on_start" env:"SWEEPER_RUN_ON_START"`
}

// RabbitMQ настройки публикации событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	RabbitMQURL     string `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQRetries int    `yaml:"retries" env-default:"5"`
}

// ServiceToken структура для проверки сервисных jwt-токенов
type ServiceToken struct {
	ServiceSecretKey string        `yaml:"secret_key" env:"SERVICE_TOKEN_SECRET" env-required:"true"`
	TokenTTL         time.Duration `yaml:"token_ttl" env-default:"1h"`
}

// RateLimit настройки ограничения частоты запросов.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"50"`
	Burst int     `yaml:"burst" env-default:"100"`
}

// Load читает конфиг из файла path и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// NotificationsEnabled сообщает, задан ли адрес сервиса уведомлений.
func (c *Config) NotificationsEnabled() bool {
	return c.NotificationURL != ""
}

// EventsEnabled сообщает, задан ли адрес RabbitMQ.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Notification:\n"+
			"  URL: %s\n"+
			"  Timeout: %s\n"+
			"Sweeper:\n"+
			"  RunAt: %s\n"+
			"  Timezone: %s\n"+
			"  RunOnStart: %t\n"+
			"RabbitMQ enabled: %t\n"+
			"RateLimit:\n"+
			"  RPS: %.1f\n"+
			"  Burst: %d\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.NotificationURL,
		c.NotificationTimeout,
		c.RunAt,
		c.Timezone,
		c.RunOnStart,
		c.EventsEnabled(),
		c.RPS,
		c.Burst,
	)
}
