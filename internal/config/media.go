package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"
)

// Environment variable names for media pipeline configuration overrides.
const (
	EnvMediaMaxUploadSize = "MEDIA_MAX_UPLOAD_SIZE"
	EnvMediaMaxFiles      = "MEDIA_MAX_FILES"
	EnvMediaFrameCount    = "MEDIA_FRAME_COUNT"
	EnvMediaFFmpegTimeout = "MEDIA_FFMPEG_TIMEOUT"
)

// MediaConfig contains upload limits and video sampling configuration.
// Sizes accept human-readable values like "50MB".
type MediaConfig struct {
	MaxUploadSize string `toml:"max_upload_size"`
	MaxFiles      int    `toml:"max_files"`
	FrameCount    int    `toml:"frame_count"`
	FFmpegTimeout string `toml:"ffmpeg_timeout"`
}

// MaxUploadSizeBytes parses and returns the per-file upload limit in bytes.
func (c *MediaConfig) MaxUploadSizeBytes() int64 {
	size, _ := units.FromHumanSize(c.MaxUploadSize)
	return size
}

// FFmpegTimeoutDuration parses and returns the subprocess timeout as a time.Duration.
func (c *MediaConfig) FFmpegTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.FFmpegTimeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *MediaConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *MediaConfig) Merge(overlay *MediaConfig) {
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.MaxFiles != 0 {
		c.MaxFiles = overlay.MaxFiles
	}
	if overlay.FrameCount != 0 {
		c.FrameCount = overlay.FrameCount
	}
	if overlay.FFmpegTimeout != "" {
		c.FFmpegTimeout = overlay.FFmpegTimeout
	}
}

func (c *MediaConfig) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
	if c.MaxFiles == 0 {
		c.MaxFiles = 5
	}
	if c.FrameCount == 0 {
		c.FrameCount = 3
	}
	if c.FFmpegTimeout == "" {
		c.FFmpegTimeout = "60s"
	}
}

func (c *MediaConfig) loadEnv() {
	if v := os.Getenv(EnvMediaMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvMediaMaxFiles); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxFiles = n
		}
	}
	if v := os.Getenv(EnvMediaFrameCount); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FrameCount = n
		}
	}
	if v := os.Getenv(EnvMediaFFmpegTimeout); v != "" {
		c.FFmpegTimeout = v
	}
}

func (c *MediaConfig) validate() error {
	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size < 1 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	if c.MaxFiles < 1 {
		return fmt.Errorf("max_files must be positive")
	}
	if c.FrameCount < 1 {
		return fmt.Errorf("frame_count must be positive")
	}
	if _, err := time.ParseDuration(c.FFmpegTimeout); err != nil {
		return fmt.Errorf("invalid ffmpeg_timeout: %w", err)
	}
	return nil
}
