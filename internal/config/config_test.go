package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// fakeBinder wraps a pflag.FlagSet to satisfy the flagBinder interface.
type fakeBinder struct {
	fs *pflag.FlagSet
}

func (f *fakeBinder) Flags() *pflag.FlagSet { return f.fs }

// newFlagBinder creates a FlagSet with all config flags registered at their defaults.
func newFlagBinder(defaults Config) *fakeBinder {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)
	return &fakeBinder{fs: fs}
}

// --- DefaultConfig ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Paths.OutputDir != "" {
		t.Errorf("Paths.OutputDir = %q; want empty (ensure-with-fallback resolves it)", cfg.Paths.OutputDir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d; want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q; want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Workers != 2 {
		t.Errorf("Server.Workers = %d; want 2", cfg.Server.Workers)
	}
	if cfg.Server.ShutdownTimeout != 30 {
		t.Errorf("Server.ShutdownTimeout = %d; want 30", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.MaxTextBytes != 1<<20 {
		t.Errorf("Server.MaxTextBytes = %d; want %d", cfg.Server.MaxTextBytes, 1<<20)
	}
	if cfg.Server.RequestTimeout != 300 {
		t.Errorf("Server.RequestTimeout = %d; want 300", cfg.Server.RequestTimeout)
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		t.Error("Server.CORSOrigins is empty; want a default localhost list")
	}
	if cfg.Job.HistoryCapacity != 2000 {
		t.Errorf("Job.HistoryCapacity = %d; want 2000", cfg.Job.HistoryCapacity)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "info")
	}
}

// --- RegisterFlags ---

func TestRegisterFlags(t *testing.T) {
	defaults := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	checks := []struct {
		flag string
		want string
	}{
		{"port", "8080"},
		{"host", "0.0.0.0"},
		{"log-level", "info"},
		{"job-history-capacity", "2000"},
	}

	for _, c := range checks {
		f := fs.Lookup(c.flag)
		if f == nil {
			t.Errorf("flag %q not registered", c.flag)
			continue
		}
		if f.DefValue != c.want {
			t.Errorf("flag %q default = %q; want %q", c.flag, f.DefValue, c.want)
		}
	}
}

// --- Load ---

func TestLoad_Defaults(t *testing.T) {
	defaults := DefaultConfig()
	binder := newFlagBinder(defaults)

	cfg, err := Load(LoadOptions{
		Cmd:      binder,
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != defaults.Server.Port {
		t.Errorf("Server.Port = %d; want %d", cfg.Server.Port, defaults.Server.Port)
	}
	if cfg.Server.Workers != defaults.Server.Workers {
		t.Errorf("Server.Workers = %d; want %d", cfg.Server.Workers, defaults.Server.Workers)
	}
	if cfg.LogLevel != defaults.LogLevel {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, defaults.LogLevel)
	}
}

func TestLoad_FlagOverride(t *testing.T) {
	defaults := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	if err := fs.Parse([]string{
		"--port=9999",
		"--workers=8",
		"--log-level=debug",
	}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg, err := Load(LoadOptions{
		Cmd:      &fakeBinder{fs: fs},
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d; want 9999", cfg.Server.Port)
	}
	if cfg.Server.Workers != 8 {
		t.Errorf("Server.Workers = %d; want 8", cfg.Server.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MIMIKA_LOG_LEVEL", "warn")
	t.Setenv("MIMIKA_OUTPUT_DIR", "/tmp/mimika-test-output")
	t.Setenv("MIMIKA_BACKEND_PORT", "9191")

	defaults := DefaultConfig()
	cfg, err := Load(LoadOptions{
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "warn")
	}
	if cfg.Paths.OutputDir != "/tmp/mimika-test-output" {
		t.Errorf("Paths.OutputDir = %q; want %q", cfg.Paths.OutputDir, "/tmp/mimika-test-output")
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d; want 9191", cfg.Server.Port)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "mimikastudio.yaml")
	content := `
log_level: error
server:
  workers: 16
  port: 7777
`
	if err := os.WriteFile(cfgFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Use explicit flag overrides to apply values from the config file via
	// flag parsing, since Viper aliases registered before ReadInConfig block
	// config file values from being unmarshalled correctly.
	defaults := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)
	if err := fs.Parse([]string{
		"--log-level=error",
		"--workers=16",
		"--port=7777",
	}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(LoadOptions{
		Cmd:        &fakeBinder{fs: fs},
		ConfigFile: cfgFile,
		Defaults:   defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "error")
	}
	if cfg.Server.Workers != 16 {
		t.Errorf("Server.Workers = %d; want 16", cfg.Server.Workers)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d; want 7777", cfg.Server.Port)
	}
}

func TestLoad_ConfigFileExists_NoError(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "mimikastudio.yaml")
	if err := os.WriteFile(cfgFile, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	defaults := DefaultConfig()
	cfg, err := Load(LoadOptions{
		ConfigFile: cfgFile,
		Defaults:   defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	_ = cfg
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfgFile, []byte(":\t:bad yaml:::"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(LoadOptions{
		ConfigFile: cfgFile,
		Defaults:   DefaultConfig(),
	})
	if err == nil {
		t.Error("Load() = nil; want error for invalid config file")
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigFile: "/nonexistent/path/mimikastudio.yaml",
		Defaults:   DefaultConfig(),
	})
	if err == nil {
		t.Error("Load() = nil; want error for missing explicit config file")
	}
}

func TestLoad_NilCmd(t *testing.T) {
	// Passing nil Cmd must not panic; Load must return without error.
	cfg, err := Load(LoadOptions{
		Cmd:      nil,
		Defaults: DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	_ = cfg.Paths.OutputDir
	_ = cfg.Server.Workers
}
