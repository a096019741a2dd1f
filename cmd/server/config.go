package main

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DataFile is the JSON playlist document. Setting DatabaseURL switches
	// persistence to Postgres instead.
	DataFile    string `env:"DATA_FILE" envDefault:"playlists.json"`
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisURL enables best-effort mutation events when set.
	RedisURL string `env:"REDIS_URL"`

	YouTubeAPIKey  string `env:"YOUTUBE_API_KEY"`
	YouTubeBaseURL string `env:"YOUTUBE_API_BASE_URL"`

	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	RateLimitRPS      int    `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst    int    `env:"RATE_LIMIT_BURST" envDefault:"40"`
}

func loadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
