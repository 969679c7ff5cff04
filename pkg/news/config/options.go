package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *Config) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *Config) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabaseURL selects the repository backend
func WithDatabaseURL(url string) Option {
	return func(c *Config) error {
		c.DatabaseURL = url
		return nil
	}
}

// WithStorageURL selects the media storage backend
func WithStorageURL(url string) Option {
	return func(c *Config) error {
		c.StorageURL = url
		return nil
	}
}

// WithJWTSecret enables bearer token verification
func WithJWTSecret(secret string) Option {
	return func(c *Config) error {
		c.AuthJWTSecret = secret
		return nil
	}
}
