// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
// веб-клиента FitPlanHub.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Возможные значения Env.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Типы хранилища сессий.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Backend         `yaml:"backend"`
	Session         `yaml:"session"`
	RedisConnection `yaml:"redis_connection"`
	CSRF            `yaml:"csrf"`
	RateLimit       `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":3000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// TrustProxy включает разбор X-Forwarded-For и X-Real-IP. Только за своим прокси.
	TrustProxy bool `yaml:"trust_proxy" env:"HTTP_TRUST_PROXY"`
}

// Backend структура для настройки REST-бэкенда FitPlanHub
type Backend struct {
	BaseURL      string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:8080"`
	Timeout      time.Duration `yaml:"timeout" env-default:"10s"`
	LandingLimit int           `yaml:"landing_limit" env-default:"4"`
}

// Session структура для настройки хранения сессий браузера
type Session struct {
	CookieName string        `yaml:"cookie_name" env-default:"fph_session"`
	TTL        time.Duration `yaml:"ttl" env-default:"168h"`
	Secure     bool          `yaml:"secure"`
	Store      string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// CSRF структура для защиты форм
type CSRF struct {
	AuthKey string `yaml:"auth_key" env:"CSRF_AUTH_KEY"`
	Secure  bool   `yaml:"secure"`
}

// RateLimit ограничение частоты отправки форм входа и регистрации
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// Load читает конфиг из файла по пути path и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, путь к файлу берётся из CONFIG_PATH
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

func (c *Config) validate() error {
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.AddressRedis == "" {
			return fmt.Errorf("session store %q requires redis_connection.addressredis", c.Session.Store)
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("backend.base_url is empty")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  TrustProxy: %t\n"+
			"Backend:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Session:\n"+
			"  Cookie: %s\n"+
			"  TTL: %s\n"+
			"  Store: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TrustProxy,
		c.BaseURL,
		c.Backend.Timeout,
		c.CookieName,
		c.TTL,
		c.Session.Store,
		c.AddressRedis,
		c.DB,
	)
}
