// Package config wraps viper with nil-safe accessors so modules can read
// their configuration subtree without guarding against missing sections.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config provides read access to a configuration tree. A Config backed by
// a nil viper returns zero values for every key.
type Config struct {
	v *viper.Viper
}

// New wraps a viper instance. A nil viper is allowed and yields an empty
// Config.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load reads the configuration file at path. When path is empty, it looks
// for limelight.yaml in the working directory and /etc/limelight.
// Environment variables prefixed LIMELIGHT_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LIMELIGHT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("limelight")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/limelight")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			// No config file is fine; defaults and env vars apply.
			return New(v), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return New(v), nil
}

// Viper returns the underlying viper instance (may be nil).
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// GetString returns the string value for key, or "".
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// GetInt returns the int value for key, or 0.
func (c *Config) GetInt(key string) int {
	if c.v == nil {
		return 0
	}
	return c.v.GetInt(key)
}

// GetBool returns the bool value for key, or false.
func (c *Config) GetBool(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

// GetDuration returns the duration value for key, or 0.
func (c *Config) GetDuration(key string) time.Duration {
	if c.v == nil {
		return 0
	}
	return c.v.GetDuration(key)
}

// IsSet reports whether key is present in the configuration.
func (c *Config) IsSet(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Sub returns the configuration subtree rooted at key. Missing subtrees
// return an empty Config, never nil.
func (c *Config) Sub(key string) *Config {
	if c.v == nil {
		return New(nil)
	}
	sub := c.v.Sub(key)
	if sub == nil {
		return New(viper.New())
	}
	return New(sub)
}

// Unmarshal decodes the configuration into target using mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}

// SetDefault sets a fallback value for key.
func (c *Config) SetDefault(key string, value any) {
	if c.v != nil {
		c.v.SetDefault(key, value)
	}
}
