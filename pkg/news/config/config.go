package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Database kinds derived from DATABASE_URL.
const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
	DatabaseMongo    = "mongo"
)

// Storage kinds derived from STORAGE_URL.
const (
	StorageMemory = "memory"
	StorageFS     = "fs"
	StorageS3     = "s3"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Config is the server configuration. Field tags drive WithEnv.
type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	// Database: "memory", "postgres://...", "postgresql://..." or "mongodb(+srv)://..."
	DatabaseURL string `env:"DATABASE_URL" env-default:"memory"`
	DBName      string `env:"DB_NAME" env-default:"newsroom"`

	// AuthJWTSecret enables HS256 verification of bearer tokens. Empty means presence-only.
	AuthJWTSecret string `env:"AUTH_JWT_SECRET"`

	// Storage: "memory://", "file:///path" or "s3://bucket"
	StorageURL        string `env:"STORAGE_URL" env-default:"memory://"`
	MediaBaseURL      string `env:"MEDIA_BASE_URL" env-default:"http://localhost:8080/media"`
	S3Region          string `env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	S3PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`

	// Mail. Without SMTP_HOST messages are only logged.
	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUsername   string `env:"SMTP_USERNAME"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
	SMTPEncryption string `env:"SMTP_ENCRYPTION" env-default:"starttls"`
	MailFrom       string `env:"MAIL_FROM" env-default:"noreply@juristmind.com"`
	OperatorEmail  string `env:"OPERATOR_EMAIL" env-default:"info@juristmind.com"`
	BrandName      string `env:"BRAND_NAME" env-default:"JURIST MIND"`

	ContactRatePerMinute int `env:"CONTACT_RATE_PER_MINUTE" env-default:"5"`
}

// Load constructs a Config by applying the supplied options on top of defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Port:                 "8080",
		Environment:          "development",
		LogLevel:             "info",
		DatabaseURL:          "memory",
		DBName:               "newsroom",
		StorageURL:           "memory://",
		MediaBaseURL:         "http://localhost:8080/media",
		S3Region:             "us-east-1",
		SMTPPort:             587,
		SMTPEncryption:       "starttls",
		MailFrom:             "noreply@juristmind.com",
		OperatorEmail:        "info@juristmind.com",
		BrandName:            "JURIST MIND",
		ContactRatePerMinute: 5,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if _, err := c.DatabaseType(); err != nil {
		return err
	}
	if _, err := c.StorageType(); err != nil {
		return err
	}

	if c.ContactRatePerMinute <= 0 {
		return fmt.Errorf("CONTACT_RATE_PER_MINUTE must be positive, got %d", c.ContactRatePerMinute)
	}
	if c.OperatorEmail == "" {
		return errors.New("operator email is required")
	}
	if c.SMTPHost != "" && (c.SMTPPort <= 0 || c.MailFrom == "") {
		return errors.New("SMTP host, port, and sender email must be configured")
	}

	return nil
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DatabaseType derives the repository kind from DatabaseURL.
func (c *Config) DatabaseType() (string, error) {
	switch u := strings.TrimSpace(c.DatabaseURL); {
	case u == "" || u == "memory":
		return DatabaseMemory, nil
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DatabasePostgres, nil
	case strings.HasPrefix(u, "mongodb://"), strings.HasPrefix(u, "mongodb+srv://"):
		return DatabaseMongo, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory', 'postgresql://...' or 'mongodb://...')", redact(u))
	}
}

// StorageType derives the blob store kind from StorageURL.
func (c *Config) StorageType() (string, error) {
	switch u := strings.TrimSpace(c.StorageURL); {
	case u == "" || u == "memory" || u == "memory://":
		return StorageMemory, nil
	case strings.HasPrefix(u, "file://"):
		if strings.TrimPrefix(u, "file://") == "" {
			return "", errors.New("filesystem path cannot be empty in STORAGE_URL")
		}
		return StorageFS, nil
	case strings.HasPrefix(u, "s3://"):
		if c.S3Bucket() == "" {
			return "", errors.New("S3 bucket name cannot be empty in STORAGE_URL")
		}
		return StorageS3, nil
	default:
		return "", fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", u)
	}
}

// StoragePath returns the directory of a file:// STORAGE_URL.
func (c *Config) StoragePath() string {
	return strings.TrimPrefix(strings.TrimSpace(c.StorageURL), "file://")
}

// S3Bucket returns the bucket of an s3:// STORAGE_URL.
func (c *Config) S3Bucket() string {
	rest := strings.TrimPrefix(strings.TrimSpace(c.StorageURL), "s3://")
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// redact hides credentials embedded in a connection string.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
