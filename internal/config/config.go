package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salarydash/internal/engine"

	"gopkg.in/yaml.v3"
)

// Config holds all salarydash configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	CORSOrigins     []string `yaml:"cors_origins"`
	RateLimit       float64  `yaml:"rate_limit"` // requests per second per client, 0 disables
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
}

// DatasetConfig configures where the salary CSV comes from.
type DatasetConfig struct {
	Path     string         `yaml:"path"`
	Watch    bool           `yaml:"watch"`
	Debounce string         `yaml:"debounce"`
	Columns  engine.Columns `yaml:"columns"`
}

// DashboardConfig tunes the computed results.
type DashboardConfig struct {
	TopRoles      int    `yaml:"top_roles"`
	HistogramBins int    `yaml:"histogram_bins"`
	CountryRole   string `yaml:"country_role"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"*"},
			RateLimit:       20,
			ShutdownTimeout: "10s",
		},
		Dataset: DatasetConfig{
			Path:     "dados-imersao-final.csv",
			Debounce: "500ms",
			Columns:  engine.DefaultColumns(),
		},
		Dashboard: DashboardConfig{
			TopRoles:      engine.DefaultTopRoles,
			HistogramBins: engine.DefaultHistogramBins,
			CountryRole:   engine.DefaultCountryRole,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("SALARYDASH_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("SALARYDASH_DATA"); path != "" {
		c.Dataset.Path = path
	}
	if level := os.Getenv("SALARYDASH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetShutdownTimeout returns the graceful shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetDebounce returns the dataset reload debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Dataset.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// EngineOptions converts the dashboard section for the engine.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		TopRoles:      c.Dashboard.TopRoles,
		HistogramBins: c.Dashboard.HistogramBins,
		CountryRole:   c.Dashboard.CountryRole,
	}
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path not configured (set dataset.path or SALARYDASH_DATA)")
	}
	if c.Dashboard.TopRoles < 0 {
		return fmt.Errorf("dashboard.top_roles must not be negative: %d", c.Dashboard.TopRoles)
	}
	if c.Dashboard.HistogramBins < 0 {
		return fmt.Errorf("dashboard.histogram_bins must not be negative: %d", c.Dashboard.HistogramBins)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative: %v", c.Server.RateLimit)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	cols := c.Dataset.Columns
	for field, name := range map[string]string{
		"year": cols.Year, "seniority": cols.Seniority, "contract_type": cols.ContractType,
		"company_size": cols.CompanySize, "role": cols.Role, "remote_type": cols.RemoteType,
		"residence_country_code": cols.Country, "salary_usd": cols.Salary,
	} {
		if name == "" {
			return fmt.Errorf("dataset.columns.%s is empty", field)
		}
	}

	return nil
}
