package config

import (
	"fmt"
	"os"
	"time"
)

// Environment variable names for vision model configuration overrides.
const (
	EnvVisionEndpoint = "VISION_ENDPOINT"
	EnvVisionModel    = "VISION_MODEL"
	EnvVisionAPIKey   = "VISION_API_KEY"
	EnvVisionTimeout  = "VISION_TIMEOUT"
)

// VisionConfig contains vision model endpoint configuration. The API key has
// no default and no fallback; a missing key fails startup rather than
// surfacing later as a mid-request authentication error.
type VisionConfig struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	Timeout  string `toml:"timeout"`
}

// TimeoutDuration parses and returns the request timeout as a time.Duration.
func (c *VisionConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *VisionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *VisionConfig) Merge(overlay *VisionConfig) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *VisionConfig) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "https://api.openai.com/v1/chat/completions"
	}
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.Timeout == "" {
		c.Timeout = "120s"
	}
}

func (c *VisionConfig) loadEnv() {
	if v := os.Getenv(EnvVisionEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvVisionModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvVisionAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvVisionTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *VisionConfig) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key required: set %s or vision.api_key", EnvVisionAPIKey)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
