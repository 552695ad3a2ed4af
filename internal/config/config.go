// Package config предоставляет структуры и функции для загрузки конфигурации сервиса заказов.
// Конфиг читается из YAML-файла (CONFIG_PATH), значения переопределяются переменными окружения.
// Без CONFIG_PATH конфиг собирается только из окружения — так запускается Lambda.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string          `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel                string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	StorageConnectionString string          `yaml:"storage_connection_string" env:"DATABASE_URL" env-required:"true"`
	Postgres                Postgres        `yaml:"postgres"`
	Redis                   RedisConnection `yaml:"redis_connection"`
	RabbitMQ                RabbitMQ        `yaml:"rabbitmq"`
	HTTPServer              HTTPServer      `yaml:"http_server"`
	Orders                  Orders          `yaml:"orders"`
}

// Postgres настройки пула соединений.
type Postgres struct {
	MaxConns        int32         `yaml:"max_conns" env:"PG_MAX_CONNS" env-default:"10"`
	MinConns        int32         `yaml:"min_conns" env:"PG_MIN_CONNS" env-default:"0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"PG_MAX_CONN_LIFETIME" env-default:"30m"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"PG_MAX_CONN_IDLE_TIME" env-default:"5m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start" env:"PG_MIGRATE_ON_START" env-default:"false"`
}

// RedisConnection настройки кеша тарифов. Пустой адрес отключает кеш.
type RedisConnection struct {
	Address     string        `yaml:"address" env:"REDIS_ADDR"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"2s"`
	Timeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"1s"`
	PlanTTL     time.Duration `yaml:"plan_ttl" env:"REDIS_PLAN_TTL" env-default:"1h"`
}

// RabbitMQ настройки публикации событий заказов. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"AMQP_URL"`
	Exchange   string        `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"orders"`
	Retries    int           `yaml:"retries" env:"AMQP_RETRIES" env-default:"3"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"AMQP_RETRY_DELAY" env-default:"1s"`
}

// HTTPServer структура для настройки сервера и обработчика запросов.
type HTTPServer struct {
	Address              string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout              time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout          time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout       time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"5s"`
	RateLimit            float64       `yaml:"rate_limit" env:"HTTP_RATE_LIMIT" env-default:"20"`
	RateBurst            int           `yaml:"rate_burst" env:"HTTP_RATE_BURST" env-default:"40"`
	RedactInternalErrors bool          `yaml:"redact_internal_errors" env:"HTTP_REDACT_INTERNAL_ERRORS" env-default:"false"`
}

// Orders настройки бизнес-правил заказов.
type Orders struct {
	EnforceTransitions bool `yaml:"enforce_transitions" env:"ORDERS_ENFORCE_TRANSITIONS" env-default:"false"`
}

// Load читает конфиг из файла path, а при пустом path — только из окружения.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env config: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", path)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}
