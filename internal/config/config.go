package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Refresh policies for the loan list mount sequence
const (
	RefreshPolicySequential = "sequential"
	RefreshPolicyConcurrent = "concurrent"
)

// Config represents the console configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	Console   ConsoleConfig   `yaml:"console"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	DevServer DevServerConfig `yaml:"devserver"`
}

// APIConfig contains the backend REST settings
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	// 0 keeps the transport default (no client timeout)
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ConsoleConfig contains view-model behaviour settings
type ConsoleConfig struct {
	RefreshPolicy        string `yaml:"refresh_policy"` // "sequential" or "concurrent"
	DefaultDailyFineRate int64  `yaml:"default_daily_fine_rate"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkOverdueLoans string `yaml:"mark_overdue_loans"`
}

// DevServerConfig contains the in-memory reference backend settings
type DevServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads configuration from a YAML file. A .env file in the working
// directory is loaded first so its values take part in the env overrides.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds a Config from raw YAML, applies env overrides and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// API
	if val := os.Getenv("CONSOLE_API_BASE_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("CONSOLE_API_TOKEN"); val != "" {
		c.API.Token = val
	}
	if val := os.Getenv("CONSOLE_API_TIMEOUT_SECONDS"); val != "" {
		fmt.Sscanf(val, "%d", &c.API.TimeoutSeconds)
	}

	// Console
	if val := os.Getenv("CONSOLE_REFRESH_POLICY"); val != "" {
		c.Console.RefreshPolicy = val
	}

	// Dev server
	if val := os.Getenv("DEVSERVER_HOST"); val != "" {
		c.DevServer.Host = val
	}
	if val := os.Getenv("DEVSERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.DevServer.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base_url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api base_url must start with http:// or https://: %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid api timeout: %d", c.API.TimeoutSeconds)
	}

	switch c.Console.RefreshPolicy {
	case "":
		c.Console.RefreshPolicy = RefreshPolicySequential
	case RefreshPolicySequential, RefreshPolicyConcurrent:
	default:
		return fmt.Errorf("invalid refresh policy: %q", c.Console.RefreshPolicy)
	}

	if c.Console.DefaultDailyFineRate < 0 {
		return fmt.Errorf("invalid default daily fine rate: %d", c.Console.DefaultDailyFineRate)
	}
	if c.Console.DefaultDailyFineRate == 0 {
		c.Console.DefaultDailyFineRate = 5000
	}

	// Scheduler defaults
	if c.Scheduler.MarkOverdueLoans == "" {
		c.Scheduler.MarkOverdueLoans = "0 0 2 * * *" // 2 AM UTC
	}

	// Dev server defaults
	if c.DevServer.Host == "" {
		c.DevServer.Host = "127.0.0.1"
	}
	if c.DevServer.Port == 0 {
		c.DevServer.Port = 8090
	}
	if c.DevServer.Port < 0 || c.DevServer.Port > 65535 {
		return fmt.Errorf("invalid devserver port: %d", c.DevServer.Port)
	}

	return nil
}

// GetDevServerAddress returns the dev server listen address
func (c *Config) GetDevServerAddress() string {
	return fmt.Sprintf("%s:%d", c.DevServer.Host, c.DevServer.Port)
}
