package config

import (
	"fmt"
	"os"
	"strings"
)

// Normalize expands paths and fills empty values. Load calls it; the CLI calls
// it again after applying flag overrides.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSteam(); err != nil {
		return err
	}
	c.normalizeFilter()
	c.normalizeConvert()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		if value, ok := os.LookupEnv("STEAMCLIP_INPUT"); ok {
			c.Paths.InputDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.InputDir, err = expandPath(strings.TrimSpace(c.Paths.InputDir)); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		if value, ok := os.LookupEnv("STEAMCLIP_OUTPUT"); ok {
			c.Paths.OutputDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = "."
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSteam() error {
	roots := make([]string, 0, len(c.Steam.Roots))
	seen := make(map[string]struct{}, len(c.Steam.Roots))
	for _, root := range c.Steam.Roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("steam.roots: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		roots = append(roots, expanded)
	}
	c.Steam.Roots = roots
	return nil
}

func (c *Config) normalizeFilter() {
	if len(c.Filter.AppIDs) == 0 {
		c.Filter.AppIDs = nil
		return
	}
	ids := make([]uint32, 0, len(c.Filter.AppIDs))
	seen := make(map[uint32]struct{}, len(c.Filter.AppIDs))
	for _, id := range c.Filter.AppIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	c.Filter.AppIDs = ids
}

func (c *Config) normalizeConvert() {
	c.Convert.FFmpegBinary = strings.TrimSpace(c.Convert.FFmpegBinary)
	if c.Convert.FFmpegBinary == "" {
		c.Convert.FFmpegBinary = defaultFFmpegBinary
	}
	c.Convert.FFprobeBinary = strings.TrimSpace(c.Convert.FFprobeBinary)
	if c.Convert.FFprobeBinary == "" {
		c.Convert.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Convert.TimeoutSeconds == 0 {
		c.Convert.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
