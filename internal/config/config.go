// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DayTime is a wall-clock time of day in HH:MM form, used for the daily
// reminder firing time.
type DayTime struct {
	Hour   int
	Minute int
}

// UnmarshalText parses "HH:MM" into a DayTime, so env.Parse can populate it
// directly from an environment variable.
func (d *DayTime) UnmarshalText(text []byte) error {
	var h, m int
	if _, err := fmt.Sscanf(string(text), "%d:%d", &h, &m); err != nil {
		return fmt.Errorf("invalid time %q (expected HH:MM): %w", text, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return fmt.Errorf("time %q out of range", text)
	}
	d.Hour, d.Minute = h, m
	return nil
}

// String renders the time back as HH:MM.
func (d DayTime) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

// Config holds all configuration values for the bot process.
// Values are populated by Load from environment variables.
type Config struct {
	// TelegramToken authenticates the bot against the Telegram API. Required.
	TelegramToken string `env:"TELEGRAM_TOKEN,required"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// ChatID preconfigures the notification target chat. When 0, the chat
	// of the first /start is used instead.
	ChatID int64 `env:"TELEGRAM_CHAT_ID"`

	// Timezone is the IANA zone the daily reminder time is interpreted in.
	Timezone string `env:"TZ" envDefault:"Europe/Madrid"`

	// ReminderTime is the local wall-clock time the daily status reminder
	// fires at.
	ReminderTime DayTime `env:"REMINDER_TIME" envDefault:"09:00"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// OpsPort is the TCP port the operational HTTP endpoint (healthz,
	// readyz) listens on.
	OpsPort string `env:"OPS_PORT" envDefault:"8080"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any required variable that is not set, and
// validates that the configured timezone exists.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("config.Load: invalid timezone %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location resolves the configured timezone. Call only after Load has
// validated it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
