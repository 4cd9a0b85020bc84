// Package config resolves process configuration from flags, environment
// variables, and an optional config file, following the teacher's
// viper/pflag/cobra layering (Load/RegisterFlags/setDefaults/registerAliases).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully resolved process configuration (spec §4.10 env
// overrides plus the ambient server/model knobs).
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Server  ServerConfig  `mapstructure:"server"`
	Job     JobConfig     `mapstructure:"job"`
	Model   ModelConfig   `mapstructure:"model"`
	LogLevel string       `mapstructure:"log_level"`
}

// PathsConfig holds the writable runtime directories resolved by
// internal/pathstore (spec §4.10). Each is an explicit override; an empty
// string means "let pathstore apply its ensure-with-fallback precedence".
type PathsConfig struct {
	RuntimeHome string `mapstructure:"runtime_home"`
	DataDir     string `mapstructure:"data_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	LogDir      string `mapstructure:"log_dir"`
	PDFDir      string `mapstructure:"pdf_dir"`
	HubRoot     string `mapstructure:"hub_root"`
}

// ServerConfig controls the HTTP gateway (C9).
type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	Workers         int      `mapstructure:"workers"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout_secs"`
	MaxTextBytes    int      `mapstructure:"max_text_bytes"`
	RequestTimeout  int      `mapstructure:"request_timeout_secs"`
}

// JobConfig sizes the job engine (C6).
type JobConfig struct {
	HistoryCapacity   int     `mapstructure:"history_capacity"`
	CharsPerSecEstimate float64 `mapstructure:"chars_per_sec_estimate"`
	PruneFailedAfterMins int  `mapstructure:"prune_failed_after_mins"`
}

// ModelConfig controls the model registry (C4).
type ModelConfig struct {
	HFToken string `mapstructure:"hf_token"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// DefaultConfig returns the zero-override defaults; empty path fields defer
// resolution to internal/pathstore's ensure-with-fallback precedence.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			RuntimeHome: "",
			DataDir:     "",
			OutputDir:   "",
			LogDir:      "",
			PDFDir:      "",
			HubRoot:     "",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			CORSOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			Workers:         2,
			ShutdownTimeout: 30,
			MaxTextBytes:    1 << 20,
			RequestTimeout:  300,
		},
		Job: JobConfig{
			HistoryCapacity:      2000,
			CharsPerSecEstimate:  14,
			PruneFailedAfterMins: 60,
		},
		Model: ModelConfig{
			HFToken: "",
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-runtime-home", defaults.Paths.RuntimeHome, "Runtime home directory override (MIMIKA_RUNTIME_HOME)")
	fs.String("paths-data-dir", defaults.Paths.DataDir, "Data directory override (MIMIKA_DATA_DIR)")
	fs.String("paths-output-dir", defaults.Paths.OutputDir, "Generated-audio output directory override (MIMIKA_OUTPUT_DIR)")
	fs.String("paths-log-dir", defaults.Paths.LogDir, "Log directory override (MIMIKA_LOG_DIR)")
	fs.String("paths-pdf-dir", defaults.Paths.PDFDir, "Uploaded-document scratch directory override (MIMIKA_PDF_DIR)")
	fs.String("paths-hub-root", defaults.Paths.HubRoot, "Model cache root directory")
	fs.String("host", defaults.Server.Host, "HTTP listen host (MIMIKA_BACKEND_HOST)")
	fs.Int("port", defaults.Server.Port, "HTTP listen port (MIMIKA_BACKEND_PORT)")
	fs.StringSlice("cors-origins", defaults.Server.CORSOrigins, "Allowed CORS origins, comma-separated (MIMIKA_CORS_ORIGINS)")
	fs.Int("workers", defaults.Server.Workers, "Max concurrent synthesis jobs (stored in config; no component reads it)")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain timeout in seconds")
	fs.Int("max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request body size in bytes")
	fs.Int("request-timeout", defaults.Server.RequestTimeout, "Per-request synthesis timeout in seconds (stored in config; no component reads it)")
	fs.Int("job-history-capacity", defaults.Job.HistoryCapacity, "Bounded job history ring capacity")
	fs.Float64("job-chars-per-sec", defaults.Job.CharsPerSecEstimate, "Estimated characters synthesized per second, for progress reporting (stored in config; audiobook jobs use the per-request value or 14)")
	fs.Int("job-prune-failed-after-mins", defaults.Job.PruneFailedAfterMins, "Age in minutes after which failed download jobs are pruned")
	fs.String("hf-token", defaults.Model.HFToken, "Hugging Face access token for gated model repos")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("MIMIKA")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := bindSpecEnvVars(v); err != nil {
		return Config{}, fmt.Errorf("bind env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("mimikastudio")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// bindSpecEnvVars binds the exact env var names the spec names in §4.10,
// since they don't follow the nested dotted-key replacer pattern.
func bindSpecEnvVars(v *viper.Viper) error {
	binds := []struct {
		key string
		env string
	}{
		{"paths.runtime_home", "MIMIKA_RUNTIME_HOME"},
		{"paths.data_dir", "MIMIKA_DATA_DIR"},
		{"paths.output_dir", "MIMIKA_OUTPUT_DIR"},
		{"paths.log_dir", "MIMIKA_LOG_DIR"},
		{"paths.pdf_dir", "MIMIKA_PDF_DIR"},
		{"server.host", "MIMIKA_BACKEND_HOST"},
		{"server.port", "MIMIKA_BACKEND_PORT"},
		{"server.cors_origins", "MIMIKA_CORS_ORIGINS"},
		{"model.hf_token", "MIMIKA_HF_TOKEN", },
	}

	for _, b := range binds {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return fmt.Errorf("bind %s: %w", b.env, err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.runtime_home", c.Paths.RuntimeHome)
	v.SetDefault("paths.data_dir", c.Paths.DataDir)
	v.SetDefault("paths.output_dir", c.Paths.OutputDir)
	v.SetDefault("paths.log_dir", c.Paths.LogDir)
	v.SetDefault("paths.pdf_dir", c.Paths.PDFDir)
	v.SetDefault("paths.hub_root", c.Paths.HubRoot)
	v.SetDefault("server.host", c.Server.Host)
	v.SetDefault("server.port", c.Server.Port)
	v.SetDefault("server.cors_origins", c.Server.CORSOrigins)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.shutdown_timeout_secs", c.Server.ShutdownTimeout)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout_secs", c.Server.RequestTimeout)
	v.SetDefault("job.history_capacity", c.Job.HistoryCapacity)
	v.SetDefault("job.chars_per_sec_estimate", c.Job.CharsPerSecEstimate)
	v.SetDefault("job.prune_failed_after_mins", c.Job.PruneFailedAfterMins)
	v.SetDefault("model.hf_token", c.Model.HFToken)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("paths.runtime_home", "paths-runtime-home")
	v.RegisterAlias("paths.data_dir", "paths-data-dir")
	v.RegisterAlias("paths.output_dir", "paths-output-dir")
	v.RegisterAlias("paths.log_dir", "paths-log-dir")
	v.RegisterAlias("paths.pdf_dir", "paths-pdf-dir")
	v.RegisterAlias("paths.hub_root", "paths-hub-root")
	v.RegisterAlias("server.host", "host")
	v.RegisterAlias("server.port", "port")
	v.RegisterAlias("server.cors_origins", "cors-origins")
	v.RegisterAlias("server.workers", "workers")
	v.RegisterAlias("server.shutdown_timeout_secs", "shutdown-timeout")
	v.RegisterAlias("server.max_text_bytes", "max-text-bytes")
	v.RegisterAlias("server.request_timeout_secs", "request-timeout")
	v.RegisterAlias("job.history_capacity", "job-history-capacity")
	v.RegisterAlias("job.chars_per_sec_estimate", "job-chars-per-sec")
	v.RegisterAlias("job.prune_failed_after_mins", "job-prune-failed-after-mins")
	v.RegisterAlias("model.hf_token", "hf-token")
	v.RegisterAlias("log_level", "log-level")
}
