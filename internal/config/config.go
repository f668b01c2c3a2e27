package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all server configuration, loaded from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`

	DatabaseDSN string `env:"DATABASE_DSN,required"`

	RedisAddr     string `env:"REDIS_ADDR,required"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET_KEY,required"`

	StreamAPIKey    string `env:"STREAM_API_KEY,required"`
	StreamAPISecret string `env:"STREAM_API_SECRET,required"`
}

// IsProduction controls the Secure flag on the session cookie.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
