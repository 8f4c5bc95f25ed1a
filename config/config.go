package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete webhook configuration
type Config struct {
	Server        ServerConfig
	Webhook       WebhookConfig
	AuditDatabase *DatabaseConfig // Optional: when nil, no audit trail is persisted.
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TLS             struct {
		Enabled  bool
		CertFile string
		KeyFile  string
	}
}

// WebhookConfig holds admission-review configuration
type WebhookConfig struct {
	// RulesFile points at the YAML rule-set configuration. Empty means the
	// built-in default rule set.
	RulesFile string

	// UnsupportedKindPolicy is "allow" or "deny" and governs objects whose
	// kind no extractor understands.
	UnsupportedKindPolicy string

	// ReviewTimeout bounds one review at the router level. It must stay well
	// under the API server's admission timeout so the caller's failure policy
	// is ours to trigger, not the network's.
	ReviewTimeout time.Duration

	// MaxRequestBytes caps the inbound envelope size.
	MaxRequestBytes int64
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL_AUDIT) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8443),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			TLS: struct {
				Enabled  bool
				CertFile string
				KeyFile  string
			}{
				Enabled:  getEnvAsBool("TLS_ENABLED", true),
				CertFile: getEnv("TLS_CERT_FILE", "certs/cert.pem"),
				KeyFile:  getEnv("TLS_KEY_FILE", "certs/key.pem"),
			},
		},
		Webhook: WebhookConfig{
			RulesFile:             getEnv("WEBHOOK_RULES_FILE", ""),
			UnsupportedKindPolicy: getEnv("WEBHOOK_UNSUPPORTED_KIND_POLICY", "allow"),
			ReviewTimeout:         getEnvAsDuration("WEBHOOK_REVIEW_TIMEOUT", 5*time.Second),
			MaxRequestBytes:       getEnvAsInt64("WEBHOOK_MAX_REQUEST_BYTES", 3<<20),
		},
		AuditDatabase: loadAuditDatabaseConfig(),
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	switch c.Webhook.UnsupportedKindPolicy {
	case "allow", "deny":
	default:
		return fmt.Errorf("unsupported kind policy must be allow or deny, got %q", c.Webhook.UnsupportedKindPolicy)
	}

	if c.Webhook.ReviewTimeout <= 0 {
		return fmt.Errorf("review timeout must be positive")
	}
	if c.Webhook.MaxRequestBytes <= 0 {
		return fmt.Errorf("max request bytes must be positive")
	}

	// The API server only talks TLS to webhooks; plaintext is for local runs.
	if c.IsProduction() && !c.Server.TLS.Enabled {
		return fmt.Errorf("TLS is required in production")
	}
	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("TLS cert and key files are required when TLS is enabled")
		}
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL_AUDIT>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadAuditDatabaseConfig loads audit DB config from DATABASE_URL_AUDIT or AUDIT_DB_* env vars.
// Returns nil when neither is set (no audit trail).
func loadAuditDatabaseConfig() *DatabaseConfig {
	if dbURL := getEnv("DATABASE_URL_AUDIT", ""); dbURL != "" {
		return &DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("AUDIT_DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:     getEnvAsInt("AUDIT_DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime:  getEnvAsDuration("AUDIT_DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	if getEnv("AUDIT_DB_HOST", "") == "" {
		return nil
	}
	return &DatabaseConfig{
		Host:            getEnv("AUDIT_DB_HOST", "localhost"),
		Port:            getEnvAsInt("AUDIT_DB_PORT", 5432),
		User:            getEnv("AUDIT_DB_USER", "webhook"),
		Password:        getEnv("AUDIT_DB_PASSWORD", ""),
		Database:        getEnv("AUDIT_DB_NAME", "admission_audit"),
		SSLMode:         getEnv("AUDIT_DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("AUDIT_DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvAsInt("AUDIT_DB_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime: getEnvAsDuration("AUDIT_DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
