package config

import (
	"flag"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"filedeck/internal/logging"
)

type Config struct {
	Port             int     `json:"port" envconfig:"PORT"`
	UploadRoot       string  `json:"upload_root" envconfig:"UPLOAD_ROOT"`
	PreferencesPath  string  `json:"preferences_path" envconfig:"PREFERENCES_PATH"`
	StagingDir       string  `json:"staging_dir" envconfig:"STAGING_DIR"`
	StaticDir        string  `json:"static_dir" envconfig:"STATIC_DIR"`
	MaxUploadBytes   int64   `json:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	DefaultExtension string  `json:"default_extension" envconfig:"DEFAULT_EXTENSION"`
	LogLevel         string  `json:"log_level" envconfig:"LOG_LEVEL"`
	LogDevelopment   bool    `json:"log_development" envconfig:"LOG_DEV"`
	RateLimitRPS     float64 `json:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst   int     `json:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
	MetricsEnabled   bool    `json:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:             3000,
		UploadRoot:       "./static/upload",
		PreferencesPath:  "./config.json",
		MaxUploadBytes:   512 << 20,
		DefaultExtension: ".txt",
		LogLevel:         "info",
		RateLimitBurst:   20,
		MetricsEnabled:   true,
	}
}

// Load reads flags and then applies environment overrides.
func Load() (*Config, error) {
	config := Default()

	flag.IntVar(&config.Port, "port", config.Port, "Port to listen on")
	flag.StringVar(&config.UploadRoot, "root", config.UploadRoot, "Directory exposed by the file manager")
	flag.StringVar(&config.PreferencesPath, "preferences", config.PreferencesPath, "Path of the preferences JSON document")
	flag.StringVar(&config.StagingDir, "staging-dir", config.StagingDir, "Directory for in-flight uploads (default: OS temp dir)")
	flag.StringVar(&config.StaticDir, "static-dir", config.StaticDir, "Directory served under /static/ (empty disables)")
	flag.Int64Var(&config.MaxUploadBytes, "max-upload", config.MaxUploadBytes, "Maximum size of one upload request in bytes")
	flag.StringVar(&config.DefaultExtension, "default-ext", config.DefaultExtension, "Extension given to new files created without one")
	flag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn, error")
	flag.BoolVar(&config.LogDevelopment, "log-dev", config.LogDevelopment, "Human readable console logs")
	flag.Float64Var(&config.RateLimitRPS, "rate-limit", config.RateLimitRPS, "Requests per second per client (0 disables)")
	flag.IntVar(&config.RateLimitBurst, "rate-burst", config.RateLimitBurst, "Burst size per client")
	flag.BoolVar(&config.MetricsEnabled, "metrics", config.MetricsEnabled, "Expose Prometheus metrics on /metrics")
	flag.Parse()

	// Override with environment variables
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.UploadRoot == "" {
		return fmt.Errorf("upload root cannot be empty")
	}
	if c.PreferencesPath == "" {
		return fmt.Errorf("preferences path cannot be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit cannot be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}
