package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

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
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RazorpayConfig struct {
	KeyID       string `yaml:"key_id"`
	KeySecret   string `yaml:"key_secret"`
	PublicKeyID string `yaml:"public_key_id"` // safe to expose for checkout widget init
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type PlanConfig struct {
	AmountMinor    int64    `yaml:"amount_minor"`
	Currency       string   `yaml:"currency"`
	DurationMonths int      `yaml:"duration_months"`
	Features       []string `yaml:"features"`
}

type PlansConfig struct {
	Monthly PlanConfig `yaml:"monthly"`
	Yearly  PlanConfig `yaml:"yearly"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Razorpay RazorpayConfig `yaml:"razorpay"`
	Auth     AuthConfig     `yaml:"auth"`
	Plans    PlansConfig    `yaml:"plans"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file (optional), overlays environment variables
// for secrets and connection strings, then applies defaults. Razorpay
// credentials are deliberately NOT validated here: their absence is a
// per-request 503, not a startup failure.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config

	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// env overlay
	overlay(&cfg.Database.URL, "DATABASE_URL")
	overlay(&cfg.Redis.URL, "REDIS_URL")
	overlay(&cfg.Redis.Password, "REDIS_PASSWORD")
	overlay(&cfg.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	overlay(&cfg.Razorpay.KeySecret, "RAZORPAY_KEY_SECRET")
	overlay(&cfg.Razorpay.PublicKeyID, "RAZORPAY_PUBLIC_KEY_ID")
	overlay(&cfg.Auth.JWTSecret, "AUTH_JWT_SECRET")
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
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
	if cfg.Razorpay.PublicKeyID == "" {
		cfg.Razorpay.PublicKeyID = cfg.Razorpay.KeyID
	}
	applyPlanDefaults(&cfg.Plans)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// applyPlanDefaults fills the Pro pricing table when the config omits it.
// Amounts are in paise.
func applyPlanDefaults(p *PlansConfig) {
	if p.Monthly.AmountMinor <= 0 {
		p.Monthly = PlanConfig{
			AmountMinor:    79900,
			Currency:       "INR",
			DurationMonths: 1,
			Features:       defaultProFeatures,
		}
	}
	if p.Yearly.AmountMinor <= 0 {
		p.Yearly = PlanConfig{
			AmountMinor:    729900,
			Currency:       "INR",
			DurationMonths: 12,
			Features:       defaultProFeatures,
		}
	}
	if p.Monthly.Currency == "" {
		p.Monthly.Currency = "INR"
	}
	if p.Yearly.Currency == "" {
		p.Yearly.Currency = "INR"
	}
	if p.Monthly.DurationMonths <= 0 {
		p.Monthly.DurationMonths = 1
	}
	if p.Yearly.DurationMonths <= 0 {
		p.Yearly.DurationMonths = 12
	}
}

var defaultProFeatures = []string{
	"Unlimited mock interviews",
	"AI-powered answer feedback",
	"Full question bank access",
	"Progress analytics",
}
