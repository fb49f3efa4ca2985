// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// IkhokhaConfig mirrors the gateway options a merchant configures:
// enable flag, checkout title/description, test mode, and the credential
// pair issued by iKhokha. The secret signs every request and callback.
type IkhokhaConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Title             string `yaml:"title"`
	Description       string `yaml:"description"`
	TestMode          bool   `yaml:"testmode"`
	ApplicationID     string `yaml:"application_id"`
	ApplicationSecret string `yaml:"application_secret"`
	APIBaseURL        string `yaml:"api_base_url"`
}

type GatewayConfig struct {
	Ikhokha IkhokhaConfig `yaml:"ikhokha"`
}

// StoreConfig describes the storefront this service fronts: where buyers
// land after payment, where the processor posts callbacks, and how the
// store formats money.
type StoreConfig struct {
	Name             string `yaml:"name"`
	Website          string `yaml:"website"`
	Currency         string `yaml:"currency"`
	DecimalSeparator string `yaml:"decimal_separator"`
	CallbackURL      string `yaml:"callback_url"`
	SuccessURL       string `yaml:"success_url"`
	PaymentPageURL   string `yaml:"payment_page_url"`
}

type SecurityConfig struct {
	AdminAPIKey   string        `yaml:"admin_api_key"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Store    StoreConfig    `yaml:"store"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Gateway.Ikhokha.Title == "" {
		cfg.Gateway.Ikhokha.Title = "iKhokha"
	}
	if cfg.Gateway.Ikhokha.Description == "" {
		cfg.Gateway.Ikhokha.Description = "Secure credit, debit card and Instant EFT payments with iKhokha."
	}
	if cfg.Gateway.Ikhokha.APIBaseURL == "" {
		cfg.Gateway.Ikhokha.APIBaseURL = "https://api.ikhokha.com"
	}
	if cfg.Store.Currency == "" {
		cfg.Store.Currency = "ZAR"
	}
	if cfg.Store.DecimalSeparator == "" {
		cfg.Store.DecimalSeparator = "."
	}
	if cfg.Security.SessionTTL <= 0 {
		cfg.Security.SessionTTL = 30 * time.Minute
	}

	// Minimal validation. The application credentials are deliberately NOT
	// required here: an unset secret surfaces as a signing failure at the
	// point of use, which the checkout and refund flows treat as a normal
	// failed processor call.
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Store.CallbackURL == "" {
		return nil, errors.New("store.callback_url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
