package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/giannis84/course-catalog/internal/auth"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

// Config holds the application configuration.
type Config struct {
	APIPort    string `yaml:"api_port"`
	HealthPort string `yaml:"health_port"`
	LogLevel   string `yaml:"log_level"`

	// HTTP server timeouts (optional, defaults apply in server.go)
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// JWT signing secret (env var only). When empty, only unsigned tokens
	// (alg=none) are accepted if AllowUnsignedTokens is true.
	JWTSecret string `yaml:"-"`

	// Lifetime of tokens issued on login.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// AllowUnsignedTokens permits unsigned JWT tokens (alg=none) when true.
	// This should ONLY be enabled for local development and testing.
	// Requires explicit opt-in via ALLOW_UNSIGNED_TOKENS=true env var.
	AllowUnsignedTokens bool `yaml:"-"`

	// Database configuration (env vars only, secrets must not live in config.yaml).
	// DatabaseURL takes precedence over the individual POSTGRES_* settings.
	DatabaseURL string `yaml:"-"`
	DBHost      string `yaml:"-"`
	DBPort      string `yaml:"-"`
	DBUser      string `yaml:"-"`
	DBPassword  string `yaml:"-"`
	DBName      string `yaml:"-"`

	// Rate limiting configuration
	RateLimitRequests int           `yaml:"rate_limit_requests"` // Max requests per window (0 = disabled)
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`   // Time window for rate limiting

	// Origins allowed to call the API from a browser. Empty disables CORS headers.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Load reads configuration with the following precedence (highest wins):
//  1. Environment variables (API_PORT, HEALTH_PORT, LOG_LEVEL, ...)
//  2. YAML config file (path from CONFIG_PATH env var, or "config.yaml")
//
// Database settings are loaded exclusively from environment variables: either DATABASE_URL or
// all of POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD and POSTGRES_DB.
func Load() (*Config, error) {
	cfg := &Config{}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("API_PORT"); v != "" {
		cfg.APIPort = v
	}
	if v := os.Getenv("HEALTH_PORT"); v != "" {
		cfg.HealthPort = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.APIPort == "" {
		return nil, fmt.Errorf("api_port is required (set via config file or API_PORT env var)")
	}
	if cfg.HealthPort == "" {
		return nil, fmt.Errorf("health_port is required (set via config file or HEALTH_PORT env var)")
	}

	// Database configuration from environment variables
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DBHost = os.Getenv("POSTGRES_HOST")
	cfg.DBPort = os.Getenv("POSTGRES_PORT")
	cfg.DBUser = os.Getenv("POSTGRES_USER")
	cfg.DBPassword = os.Getenv("POSTGRES_PASSWORD")
	cfg.DBName = os.Getenv("POSTGRES_DB")

	// JWT secret (optional, when empty AND AllowUnsignedTokens is true unsigned tokens are accepted)
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	// Allow unsigned tokens (explicit opt-in for dev/test only)
	cfg.AllowUnsignedTokens = os.Getenv("ALLOW_UNSIGNED_TOKENS") == "true"

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}

	// HTTP server timeouts (optional, defaults apply in server.go if zero)
	if v := os.Getenv("READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReadTimeout = d
		}
	}
	if v := os.Getenv("WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.WriteTimeout = d
		}
	}
	if v := os.Getenv("IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IdleTimeout = d
		}
	}

	if cfg.DatabaseURL == "" {
		if err := cfg.requireDBEnv(); err != nil {
			return nil, err
		}
	}

	// Rate limiting configuration (env vars override config file)
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitRequests = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RateLimitWindow = d
		}
	}

	// Apply rate limiting defaults if partially configured
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = time.Minute // Default window: 1 minute
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	return cfg, nil
}

func (c *Config) requireDBEnv() error {
	required := []struct {
		name  string
		value string
	}{
		{"POSTGRES_HOST", c.DBHost},
		{"POSTGRES_PORT", c.DBPort},
		{"POSTGRES_USER", c.DBUser},
		{"POSTGRES_PASSWORD", c.DBPassword},
		{"POSTGRES_DB", c.DBName},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s env var is required (or set DATABASE_URL)", r.name)
		}
	}
	return nil
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PostgresConnString returns a PostgreSQL connection string.
func (c *Config) PostgresConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// APIAddr returns the listen address for the API server.
func (c *Config) APIAddr() string {
	return ":" + c.APIPort
}

// HealthAddr returns the listen address for the health check server.
func (c *Config) HealthAddr() string {
	return ":" + c.HealthPort
}

// AuthConfig returns the JWT authentication configuration.
func (c *Config) AuthConfig() auth.Config {
	return auth.Config{
		Secret:              c.JWTSecret,
		AllowUnsignedTokens: c.AllowUnsignedTokens,
		TokenTTL:            c.TokenTTL,
	}
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Requests int           // Max requests per window (0 = disabled)
	Window   time.Duration // Time window for rate limiting
}

// RateLimitConfig returns the rate limiting configuration.
func (c *Config) RateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: c.RateLimitRequests,
		Window:   c.RateLimitWindow,
	}
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// CORSConfig returns the cross-origin configuration.
func (c *Config) CORSConfig() CORSConfig {
	return CORSConfig{AllowedOrigins: c.CORSAllowedOrigins}
}
