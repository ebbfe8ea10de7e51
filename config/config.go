// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/feedbackhq/feedback-collector/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	minJWTLength = 32
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
}

// DatabaseConfig holds PostgreSQL connection details.
type DatabaseConfig struct {
	Host         string `mapstructure:"HOST"`
	Port         int    `mapstructure:"PORT"`
	User         string `mapstructure:"USER"`
	Password     string `mapstructure:"PASSWORD"`
	Name         string `mapstructure:"NAME"`
	SSLMode      string `mapstructure:"SSL_MODE"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and
// other URL-based database tools.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details for rate limiting.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
	UseTLS   bool   `mapstructure:"USE_TLS"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	SecretKey   string `mapstructure:"SECRET_KEY"`
	ExpiryHours int    `mapstructure:"EXPIRY_HOURS"`
}

// AdminConfig gates admin self-registration.
type AdminConfig struct {
	// RegistrationEnabled allows POST /auth/register at all.
	RegistrationEnabled bool `mapstructure:"REGISTRATION_ENABLED"`
	// InvitationCode must accompany every registration when set.
	InvitationCode string `mapstructure:"INVITATION_CODE"`
	// AllowedEmailDomains restricts admin email domains when non-empty.
	AllowedEmailDomains []string `mapstructure:"ALLOWED_EMAIL_DOMAINS"`
}

// EmailDomainAllowed reports whether an email's domain passes the allowlist.
// An empty allowlist admits every domain.
func (c *AdminConfig) EmailDomainAllowed(email string) bool {
	if len(c.AllowedEmailDomains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range c.AllowedEmailDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}

// RateLimitConfig holds request-per-window limits for the public endpoints.
type RateLimitConfig struct {
	SubmitPerMinute int `mapstructure:"SUBMIT_PER_MINUTE"`
	AuthPerMinute   int `mapstructure:"AUTH_PER_MINUTE"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER"`
	Database  DatabaseConfig  `mapstructure:"DATABASE"`
	Redis     RedisConfig     `mapstructure:"REDIS"`
	JWT       JWTConfig       `mapstructure:"JWT"`
	Admin     AdminConfig     `mapstructure:"ADMIN"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT"`
}

// IsProduction returns true when running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, unmarshals, and validates.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "feedback_collector")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 5)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("JWT.EXPIRY_HOURS", 24)
	v.SetDefault("ADMIN.REGISTRATION_ENABLED", false)
	v.SetDefault("ADMIN.INVITATION_CODE", "")
	v.SetDefault("ADMIN.ALLOWED_EMAIL_DOMAINS", []string{})
	v.SetDefault("RATE_LIMIT.SUBMIT_PER_MINUTE", 20)
	v.SetDefault("RATE_LIMIT.AUTH_PER_MINUTE", 10)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		{"JWT.SECRET_KEY", "JWT_SECRET"},
		{"JWT.EXPIRY_HOURS", "JWT_EXPIRY_HOURS"},
		{"ADMIN.REGISTRATION_ENABLED", "ADMIN_REGISTRATION_ENABLED"},
		{"ADMIN.INVITATION_CODE", "ADMIN_INVITATION_CODE"},
		{"ADMIN.ALLOWED_EMAIL_DOMAINS", "ALLOWED_EMAIL_DOMAINS"},
		{"RATE_LIMIT.SUBMIT_PER_MINUTE", "RATE_LIMIT_SUBMIT_PER_MINUTE"},
		{"RATE_LIMIT.AUTH_PER_MINUTE", "RATE_LIMIT_AUTH_PER_MINUTE"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"db_host", cfg.Database.Host,
		"registration_enabled", cfg.Admin.RegistrationEnabled,
		"allowed_email_domains", cfg.Admin.AllowedEmailDomains,
	)
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if len(cfg.JWT.SecretKey) < minJWTLength {
		return fmt.Errorf("JWT secret key must be at least %d characters long", minJWTLength)
	}
	if cfg.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("JWT expiry hours must be positive")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if cfg.Database.Password == "" {
		log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
	}

	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required")
	}

	if cfg.Admin.RegistrationEnabled && cfg.Admin.InvitationCode == "" {
		log.Warn("Admin registration is enabled without an invitation code. Anyone can register an admin account.")
	}
	for i, domain := range cfg.Admin.AllowedEmailDomains {
		cfg.Admin.AllowedEmailDomains[i] = strings.ToLower(strings.TrimSpace(domain))
	}

	if cfg.RateLimit.SubmitPerMinute <= 0 {
		return fmt.Errorf("submit rate limit must be positive")
	}
	if cfg.RateLimit.AuthPerMinute <= 0 {
		return fmt.Errorf("auth rate limit must be positive")
	}

	return nil
}

// containsWildcard checks if the allowed origins contain "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
