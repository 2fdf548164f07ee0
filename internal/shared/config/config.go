package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration.
type Config struct {
	Port             string   `envconfig:"PORT" default:"8080"`
	Env              string   `envconfig:"ENV" default:"dev"`
	LogLevel         string   `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL      string   `envconfig:"DATABASE_URL"`
	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`

	AnalysisWebhookURL  string        `envconfig:"ANALYSIS_WEBHOOK_URL"`
	AnalysisCallbackKey string        `envconfig:"ANALYSIS_CALLBACK_TOKEN"`
	AnalysisTimeout     time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"120s"`
	AnalysisCreditCost  int64         `envconfig:"ANALYSIS_CREDIT_COST" default:"40"`
	StarterCredits      int64         `envconfig:"STARTER_CREDITS" default:"240"`
	BreakerFailureRatio float64       `envconfig:"BREAKER_FAILURE_RATIO" default:"0.6"`
	BreakerTimeout      time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`

	AppBaseURL    string        `envconfig:"APP_BASE_URL" default:"http://localhost:8080"`
	UIRedirectURL string        `envconfig:"UI_REDIRECT_URL" default:"http://localhost:3000/auth/complete"`
	MagicLinkTTL  time.Duration `envconfig:"MAGIC_LINK_TTL" default:"24h"`
	EmailFrom     string        `envconfig:"EMAIL_FROM" default:"no-reply@localhost"`
	JWTSecret     string        `envconfig:"JWT_SECRET"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL"`

	RateLimitDefaultRPS  float64 `envconfig:"RATE_LIMIT_DEFAULT_RPS" default:"5"`
	RateLimitAnalysisRPM float64 `envconfig:"RATE_LIMIT_ANALYSIS_RPM" default:"6"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CORSAllowOrigins = trimAll(cfg.CORSAllowOrigins)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	if c.Env == "production" {
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required in production")
		}
		if strings.TrimSpace(c.JWTSecret) == "" {
			return errors.New("JWT_SECRET is required in production")
		}
		if c.AnalysisWebhookURL == "" {
			return errors.New("ANALYSIS_WEBHOOK_URL is required in production")
		}
	}
	if c.AnalysisCreditCost <= 0 {
		return fmt.Errorf("ANALYSIS_CREDIT_COST must be positive, got %d", c.AnalysisCreditCost)
	}
	if c.StarterCredits < 0 {
		return fmt.Errorf("STARTER_CREDITS must not be negative, got %d", c.StarterCredits)
	}
	return nil
}

// IsDev reports whether in-memory fallbacks are allowed.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "local"
}

func trimAll(in []string) []string {
	var out []string
	for _, p := range in {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
