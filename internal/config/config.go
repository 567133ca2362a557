package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Steam lists additional Steam install roots to search for libraries.
type Steam struct {
	Roots []string `toml:"roots"`
}

// Filter restricts which clips are converted.
type Filter struct {
	AppIDs []uint32 `toml:"app_ids"`
}

// Convert contains settings for the ffmpeg remux step.
type Convert struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	VerifyOutput   bool   `toml:"verify_output"`
}

// Cleanup controls removal of source folders after conversion.
type Cleanup struct {
	DeleteAfter bool `toml:"delete_after"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for steamclip.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Steam   Steam   `toml:"steam"`
	Filter  Filter  `toml:"filter"`
	Convert Convert `toml:"convert"`
	Cleanup Cleanup `toml:"cleanup"`
	Logging Logging `toml:"logging"`
}

// ErrConfigExists is returned by WriteSample when the target already exists
// and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the config file chosen by locate, then normalizes and validates
// it. Keys the Config type does not know are rejected so typos surface. The
// resolved path and whether it existed are returned alongside the config.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: unknown keys:\n%s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// locate picks the config file: an explicit path (which may not exist yet),
// else the first existing of the per-user file and ./steamclip.toml, else the
// per-user path marked as missing.
func locate(explicit string) (string, bool, error) {
	if explicit != "" {
		path, err := expandPath(explicit)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(path)
		switch {
		case err == nil:
			if info.IsDir() {
				return "", false, fmt.Errorf("config %s is a directory", path)
			}
			return path, true, nil
		case errors.Is(err, fs.ErrNotExist):
			return path, false, nil
		default:
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := expandPath(projectConfigFile)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

// ConvertTimeout returns the per-clip ffmpeg timeout.
func (c *Config) ConvertTimeout() time.Duration {
	return time.Duration(c.Convert.TimeoutSeconds) * time.Second
}

// AppIDSet returns the app id filter as a set; nil means no filtering.
func (c *Config) AppIDSet() map[uint32]struct{} {
	if len(c.Filter.AppIDs) == 0 {
		return nil
	}
	set := make(map[uint32]struct{}, len(c.Filter.AppIDs))
	for _, id := range c.Filter.AppIDs {
		set[id] = struct{}{}
	}
	return set
}

// expandPath resolves a leading ~ to the home directory and makes the result
// absolute. An empty value stays empty.
func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, value[1:])
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}

// WriteSample writes the annotated sample config to path, or to the per-user
// location when path is empty, and returns where it was written.
func WriteSample(path string, overwrite bool) (string, error) {
	target := path
	if target == "" {
		target = defaultConfigPath
	}
	target, err := expandPath(target)
	if err != nil {
		return "", err
	}
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return target, fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrConfigExists, target)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return target, fmt.Errorf("check config path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return target, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return target, fmt.Errorf("write sample config: %w", err)
	}
	return target, nil
}
