// Package config provides configuration loading for budgetd.
//
// Configuration is loaded from a YAML file overridden by environment
// variables, with hardcoded defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/sampurna-d/budget-buddy/internal/logging"
)

// Config holds the complete budgetd configuration.
type Config struct {
	AI      AIConfig       `koanf:"ai"`
	Notify  NotifyConfig   `koanf:"notify"`
	Store   StoreConfig    `koanf:"store"`
	Logging logging.Config `koanf:"logging"`
}

// AIConfig holds completion-endpoint settings.
type AIConfig struct {
	BaseURL    string        `koanf:"base_url"`
	APIKey     string        `koanf:"api_key"`
	Model      string        `koanf:"model"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`
}

// NotifyConfig holds notification scheduling settings.
type NotifyConfig struct {
	ChannelID string `koanf:"channel_id"`
	MinHour   int    `koanf:"min_hour"`
	MaxHour   int    `koanf:"max_hour"`
}

// StoreConfig holds record-store settings.
type StoreConfig struct {
	BaseURL  string        `koanf:"base_url"`
	APIKey   string        `koanf:"api_key"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return errors.New("ai timeout must be positive")
	}
	if c.AI.MaxRetries < 0 {
		return errors.New("ai max_retries must not be negative")
	}
	if c.Notify.MinHour < 0 || c.Notify.MaxHour > 23 || c.Notify.MinHour > c.Notify.MaxHour {
		return fmt.Errorf("invalid notify hour window [%d,%d]", c.Notify.MinHour, c.Notify.MaxHour)
	}
	if c.Store.CacheTTL < 0 {
		return errors.New("store cache_ttl must not be negative")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// defaultConfig is the bottom configuration layer. File and environment
// values override it, so an explicit zero (e.g. ai.max_retries: 0) survives.
func defaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"ai.base_url":       "https://api.openai.com",
		"ai.model":          "gpt-4o-mini",
		"ai.timeout":        "5s",
		"ai.max_retries":    2,
		"notify.channel_id": "budget-alerts",
		"notify.min_hour":   9,
		"notify.max_hour":   20,
		"store.cache_ttl":   "5m",
		"logging.level":     "info",
		"logging.format":    "json",
		"logging.fields":    map[string]string{"service": "budgetd"},
	}
}
