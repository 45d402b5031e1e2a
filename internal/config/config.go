package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"5001"`

	// AI model (OpenAI-compatible endpoint)
	DeepSeekKey   string `env:"DEEPSEEK_API_KEY,required"`
	DeepSeekURL   string `env:"DEEPSEEK_API_URL" envDefault:"https://api.deepseek.com/v1"`
	DeepSeekModel string `env:"DEEPSEEK_MODEL" envDefault:"deepseek-chat"`

	// Google OAuth client used when refreshing stored tokens
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// Timezone used for date context and timed events
	Timezone string `env:"TIMEZONE" envDefault:"America/Chicago"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
