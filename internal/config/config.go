package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// AnalyticsConfig tunes the computation defaults. MaxHeartRate is the
// reference maximum for zone classification; set it per deployment since it
// is age-derived.
type AnalyticsConfig struct {
	MaxHeartRate     int     `yaml:"max_heart_rate"`
	PaceStrideMeters float64 `yaml:"pace_stride_meters"`
	OverlapThreshold float64 `yaml:"overlap_threshold"`
}

// TailscaleConfig enables serving on a tailnet instead of a plain listener.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
	AuthKey  string `yaml:"auth_key"`
}

// DefaultMaxHeartRate is used when analytics.max_heart_rate is unset.
const DefaultMaxHeartRate = 190

// DefaultOverlapThreshold is the minimum time-window overlap for matching
// activities across sources when analytics.overlap_threshold is unset.
const DefaultOverlapThreshold = 0.8

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix SWASTRICARE_ and underscore-separated paths:
//
//	SWASTRICARE_SERVER_HOST, SWASTRICARE_SERVER_PORT,
//	SWASTRICARE_DB_HOST, SWASTRICARE_DB_PORT, SWASTRICARE_DB_NAME,
//	SWASTRICARE_DB_USER, SWASTRICARE_DB_PASSWORD, SWASTRICARE_DB_SSLMODE,
//	SWASTRICARE_AUTH_API_KEY, SWASTRICARE_MAX_HEART_RATE,
//	SWASTRICARE_TS_HOSTNAME, SWASTRICARE_TS_AUTHKEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SWASTRICARE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SWASTRICARE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SWASTRICARE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("SWASTRICARE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("SWASTRICARE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("SWASTRICARE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("SWASTRICARE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("SWASTRICARE_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("SWASTRICARE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("SWASTRICARE_MAX_HEART_RATE"); v != "" {
		if bpm, err := strconv.Atoi(v); err == nil {
			cfg.Analytics.MaxHeartRate = bpm
		}
	}
	if v := os.Getenv("SWASTRICARE_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("SWASTRICARE_TS_AUTHKEY"); v != "" {
		cfg.Tailscale.AuthKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Analytics.MaxHeartRate == 0 {
		cfg.Analytics.MaxHeartRate = DefaultMaxHeartRate
	}
	if cfg.Analytics.OverlapThreshold == 0 {
		cfg.Analytics.OverlapThreshold = DefaultOverlapThreshold
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "swastricare"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Analytics.MaxHeartRate < 0 {
		return fmt.Errorf("analytics.max_heart_rate must be positive")
	}
	if c.Analytics.OverlapThreshold < 0 || c.Analytics.OverlapThreshold > 1 {
		return fmt.Errorf("analytics.overlap_threshold must be in [0, 1]")
	}
	return nil
}
