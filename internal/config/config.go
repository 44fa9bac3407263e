// Package config provides environment configuration management.
package config

import (
	"github.com/caarlos0/env/v11"
)

// Config holds all environment configuration for the application.
type Config struct {
	DBDriver   string `env:"DB_DRIVER"   envDefault:"mysql"`
	DBHost     string `env:"DB_HOST"     envDefault:"localhost"`
	DBPort     string `env:"DB_PORT"     envDefault:"3306"`
	DBUser     string `env:"DB_USER"     envDefault:"events"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"events"`
	DBName     string `env:"DB_NAME"     envDefault:"campus_events"`

	// JWTSecret signs access tokens. RefreshSecret signs refresh tokens;
	// the token service falls back to JWTSecret when it is unset.
	JWTSecret     string `env:"JWT_SECRET"           envDefault:"change-me-in-production"`
	RefreshSecret string `env:"REFRESH_TOKEN_SECRET" envDefault:""`

	Port     string `env:"PORT"      envDefault:"8080"`
	GinMode  string `env:"GIN_MODE"  envDefault:"debug"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	SMTPHost string `env:"SMTP_HOST"     envDefault:""`
	SMTPPort string `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"     envDefault:""`
	SMTPPass string `env:"SMTP_PASSWORD" envDefault:""`
	MailFrom string `env:"MAIL_FROM"     envDefault:"noreply@campus-events.local"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
