package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv reads every tagged field from the environment. Unset variables fall
// back to their env-default, so options that must win over the environment
// belong after WithEnv.
//
//	PORT, ENVIRONMENT, LOG_LEVEL
//	DATABASE_URL - "memory" (default), "postgresql://..." or "mongodb://..."
//	DB_NAME      - Mongo database name
//	STORAGE_URL  - "memory://" (default), "file:///path/to/data" or "s3://bucket"
//	S3_*         - S3 region, endpoint, credentials and public URL
//	SMTP_*, MAIL_FROM, OPERATOR_EMAIL - notification delivery
//	AUTH_JWT_SECRET - enables bearer token verification
//	CONTACT_RATE_PER_MINUTE - per-IP limit on notification endpoints
func WithEnv() Option {
	return func(c *Config) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// Usage returns the environment variable help text.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}
