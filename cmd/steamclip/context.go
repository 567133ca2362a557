package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"steamclip/internal/config"
	"steamclip/internal/logging"
	"steamclip/internal/steamlib"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
			if err := cfg.Normalize(); err != nil {
				c.configErr = err
				return
			}
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// consoleLogger logs to stderr only; listing commands do not leave run logs.
func consoleLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// runLogger logs to stderr and to a per-run file in the log directory.
func runLogger(cfg *config.Config) (*slog.Logger, string, error) {
	return logging.NewFromConfig(cfg, time.Now())
}

// resolveInput returns the configured input directory or, when none is set,
// the userdata directory of the first Steam install found.
func resolveInput(cfg *config.Config, logger *slog.Logger) (string, error) {
	if cfg.Paths.InputDir != "" {
		return cfg.Paths.InputDir, nil
	}
	candidates := append(append([]string(nil), cfg.Steam.Roots...), steamlib.SteamRoots()...)
	for _, root := range candidates {
		userdata := filepath.Join(root, "userdata")
		if info, err := os.Stat(userdata); err == nil && info.IsDir() {
			logging.WarnWithContext(logger, "no input directory given; scanning Steam userdata", "input_defaulted",
				logging.String("input", userdata),
				logging.String(logging.FieldErrorHint, "pass an input directory or set paths.input_dir"),
				logging.String(logging.FieldImpact, "recordings of every local Steam user are converted"),
			)
			return userdata, nil
		}
	}
	return "", errors.New("no input directory given and no Steam userdata directory found; pass one as an argument or with --input")
}

// steamCandidates orders Steam install roots for library discovery: configured
// roots, then an install containing the input directory, then platform defaults.
func steamCandidates(cfg *config.Config, input string) []string {
	candidates := append([]string(nil), cfg.Steam.Roots...)
	if root, ok := steamlib.RootFromPath(input); ok {
		candidates = append(candidates, root)
	}
	return append(candidates, steamlib.SteamRoots()...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func toAppIDs(values []uint) ([]uint32, error) {
	ids := make([]uint32, 0, len(values))
	for _, value := range values {
		if value == 0 || value > uint(^uint32(0)) {
			return nil, fmt.Errorf("invalid --gameId %d", value)
		}
		ids = append(ids, uint32(value))
	}
	return ids, nil
}
