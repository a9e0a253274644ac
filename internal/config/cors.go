package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names for CORS configuration overrides.
const (
	EnvCORSEnabled = "CORS_ENABLED"
	EnvCORSOrigins = "CORS_ORIGINS"
	EnvCORSMethods = "CORS_ALLOWED_METHODS"
	EnvCORSHeaders = "CORS_ALLOWED_HEADERS"
)

// CORSConfig contains cross-origin resource sharing configuration.
type CORSConfig struct {
	Enabled        bool     `toml:"enabled"`
	Origins        []string `toml:"origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// Finalize applies defaults and loads environment overrides.
func (c *CORSConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if len(overlay.Origins) > 0 {
		c.Origins = overlay.Origins
	}
	if len(overlay.AllowedMethods) > 0 {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if len(overlay.AllowedHeaders) > 0 {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.Origins) == 0 {
		c.Origins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
}

func (c *CORSConfig) loadEnv() {
	if v := os.Getenv(EnvCORSEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		c.Origins = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvCORSMethods); v != "" {
		c.AllowedMethods = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvCORSHeaders); v != "" {
		c.AllowedHeaders = strings.Split(v, ",")
	}
}
