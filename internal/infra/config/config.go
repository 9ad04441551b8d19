package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Europe/Prague"`
	Port   int    `envconfig:"PORT" default:"8080"`

	Telegram struct {
		Token      string `envconfig:"TG_BOT_TOKEN"`
		WebhookURL string `envconfig:"TG_WEBHOOK_URL"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Satellites struct {
		BaseURL  string `envconfig:"SAT_API_BASE_URL" default:"http://api.uhaapi.com"`
		CacheTTL int    `envconfig:"SAT_API_CACHE_TTL_SECONDS" default:"900"`
	} `envconfig:""`

	DefaultObserver struct {
		Lon       float64 `envconfig:"DEFAULT_OBSERVER_LON" default:"15.05728"`
		Lat       float64 `envconfig:"DEFAULT_OBSERVER_LAT" default:"50.76111"`
		Elevation float64 `envconfig:"DEFAULT_OBSERVER_ELEVATION" default:"400"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
