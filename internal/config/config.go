package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every variable; the bare name is accepted as a fallback.
const EnvPrefix = "LABGROWTH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"dev"`
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogFile   string `envconfig:"LOG_FILE"`

	DBPath      string `envconfig:"DB_PATH" default:"./dev.db"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	SessionSecret string `envconfig:"SESSION_SECRET"`

	CheckoutURL   string `envconfig:"CHECKOUT_URL" default:"/checkout"`
	BookingURL    string `envconfig:"BOOKING_URL" default:"https://calendly.com/josh-buzzwordstrategies/discovery-call"`
	DefaultMonths int    `envconfig:"DEFAULT_MONTHS" default:"12"`

	RedisURL        string        `envconfig:"REDIS_URL"`
	LeadRateLimit   int           `envconfig:"LEAD_RATE_LIMIT" default:"10"`
	LeadRateWindow  time.Duration `envconfig:"LEAD_RATE_WINDOW" default:"1m"`
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"5"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"15m"`
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy      bool          `envconfig:"TRUST_PROXY" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads a local .env file when present, then the process environment.
// Values already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DefaultMonths <= 0 {
		return Config{}, fmt.Errorf("parse config: DEFAULT_MONTHS must be greater than 0")
	}
	return cfg, nil
}

// IsDev reports whether APP_ENV selects the development environment.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, AppEnvDev)
}

// IsProd reports whether APP_ENV selects production.
func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, AppEnvProd)
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}
	return warnings
}
