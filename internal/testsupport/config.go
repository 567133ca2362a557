package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"steamclip/internal/config"
)

// Option adjusts a config built by NewConfig.
type Option func(t testing.TB, cfg *config.Config)

// NewConfig returns a config laid out under a fresh temp directory:
//
//	<base>/userdata  input
//	<base>/output    converted files
//	<base>/logs      run logs
//	<base>/Steam     the only Steam root
//
// Output verification is off. None of the directories are created.
func NewConfig(t testing.TB, opts ...Option) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		InputDir:  filepath.Join(base, "userdata"),
		OutputDir: filepath.Join(base, "output"),
		LogDir:    filepath.Join(base, "logs"),
	}
	cfg.Steam.Roots = []string{filepath.Join(base, "Steam")}
	cfg.Convert.VerifyOutput = false
	for _, opt := range opts {
		opt(t, &cfg)
	}
	return &cfg
}

// BaseDir returns the temp directory behind a NewConfig config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}

// WithDeleteAfter enables source cleanup.
func WithDeleteAfter() Option {
	return func(_ testing.TB, cfg *config.Config) { cfg.Cleanup.DeleteAfter = true }
}

// WithAppIDs sets the app id filter.
func WithAppIDs(ids ...uint32) Option {
	return func(_ testing.TB, cfg *config.Config) { cfg.Filter.AppIDs = append([]uint32(nil), ids...) }
}

// WithStubTools points convert.ffmpeg_binary and convert.ffprobe_binary at
// scripts under <base>/bin that exit 0.
func WithStubTools() Option {
	return func(t testing.TB, cfg *config.Config) {
		bin := filepath.Join(BaseDir(cfg), "bin")
		cfg.Convert.FFmpegBinary = StubTool(t, bin, "ffmpeg", "exit 0")
		cfg.Convert.FFprobeBinary = StubTool(t, bin, "ffprobe", "exit 0")
	}
}

// StubTool writes an executable /bin/sh script named name into dir and
// returns its path. Tests using it are skipped on Windows.
func StubTool(t testing.TB, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}

	path := filepath.Join(dir, name)
	WriteText(t, path, "#!/bin/sh\n"+body+"\n")
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
	return path
}
