package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. A missing file is not an error; defaults and environment variables
// apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TENNIS_MONEYLINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tennis-moneyline")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("archive.cache_ttl_minutes", 60)
	v.SetDefault("archive.timeout_seconds", 60)
	v.SetDefault("archive.max_retries", 4)
	v.SetDefault("archive.rate_limit", 5.0)

	v.SetDefault("schedule.scan_days", 14)

	v.SetDefault("model.window_weeks", 52)
	v.SetDefault("model.fatigue_window_days", 7)
	v.SetDefault("model.baseline_serve", 0.64)
	v.SetDefault("model.default_match_minutes", 90)
	v.SetDefault("model.fatigue_threshold_minutes", 180)
	v.SetDefault("model.fatigue_penalty", 0.92)
	v.SetDefault("model.clamp_min", 0.40)
	v.SetDefault("model.clamp_max", 0.85)
	v.SetDefault("model.h2h_edge", 0.02)
	v.SetDefault("model.h2h_upper_threshold", 0.66)
	v.SetDefault("model.h2h_lower_threshold", 0.34)

	v.SetDefault("simulation.iterations", 10000)
	v.SetDefault("simulation.workers", 4)

	v.SetDefault("export.output_dir", "output")
	v.SetDefault("export.formats", []string{"json", "csv"})

	v.SetDefault("scheduler.cron", "0 7 * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
