// Package config provides configuration management for the tennis moneyline
// prediction engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Archive    ArchiveConfig    `mapstructure:"archive" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Export     ExportConfig     `mapstructure:"export" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. Persistence is
// optional; fields are validated only when Enabled is set.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// ArchiveConfig represents the historical match archive source
type ArchiveConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"omitempty,url"`
	CacheTTLMinutes int     `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// ScheduleConfig represents the upcoming-matchups source
type ScheduleConfig struct {
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
	ScanDays int    `mapstructure:"scan_days" validate:"required,min=1,max=31"`
}

// ModelConfig represents form estimation and serve model parameters
type ModelConfig struct {
	WindowWeeks             int     `mapstructure:"window_weeks" validate:"required,gt=0"`
	FatigueWindowDays       int     `mapstructure:"fatigue_window_days" validate:"required,gt=0"`
	BaselineServe           float64 `mapstructure:"baseline_serve" validate:"required,gt=0,lt=1"`
	DefaultMatchMinutes     int     `mapstructure:"default_match_minutes" validate:"required,gt=0"`
	FatigueThresholdMinutes int     `mapstructure:"fatigue_threshold_minutes" validate:"required,gt=0"`
	FatiguePenalty          float64 `mapstructure:"fatigue_penalty" validate:"required,gt=0,lte=1"`
	ClampMin                float64 `mapstructure:"clamp_min" validate:"gte=0"`
	ClampMax                float64 `mapstructure:"clamp_max" validate:"required,lte=1"`
	H2HEdge                 float64 `mapstructure:"h2h_edge" validate:"gte=0"`
	H2HUpperThreshold       float64 `mapstructure:"h2h_upper_threshold" validate:"required,gt=0,lt=1"`
	H2HLowerThreshold       float64 `mapstructure:"h2h_lower_threshold" validate:"required,gt=0,lt=1"`
}

// SimulationConfig represents Monte Carlo settings
type SimulationConfig struct {
	Iterations int   `mapstructure:"iterations" validate:"required,gt=0"`
	Workers    int   `mapstructure:"workers" validate:"required,gt=0"`
	Seed       int64 `mapstructure:"seed"`
}

// ExportConfig represents prediction export settings
type ExportConfig struct {
	OutputDir string   `mapstructure:"output_dir" validate:"required"`
	Formats   []string `mapstructure:"formats" validate:"required,min=1,exportformats"`
}

// SchedulerConfig represents the daemon's scheduled-run settings
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Window returns the form window as a duration
func (m ModelConfig) Window() time.Duration {
	return time.Duration(m.WindowWeeks) * 7 * 24 * time.Hour
}

// FatigueWindow returns the fatigue window as a duration
func (m ModelConfig) FatigueWindow() time.Duration {
	return time.Duration(m.FatigueWindowDays) * 24 * time.Hour
}

// CacheTTL returns the archive cache TTL as a duration
func (a ArchiveConfig) CacheTTL() time.Duration {
	return time.Duration(a.CacheTTLMinutes) * time.Minute
}

// Timeout returns the archive fetch timeout as a duration
func (a ArchiveConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}
