package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateFilter() error {
	for _, id := range c.Filter.AppIDs {
		if id == 0 {
			return errors.New("filter.app_ids must not contain 0")
		}
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.TimeoutSeconds <= 0 {
		return errors.New("convert.timeout_seconds must be positive")
	}
	if c.Convert.FFmpegBinary == "" {
		return errors.New("convert.ffmpeg_binary must be set")
	}
	if c.Convert.VerifyOutput && c.Convert.FFprobeBinary == "" {
		return errors.New("convert.ffprobe_binary must be set when convert.verify_output is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
