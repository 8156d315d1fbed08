package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL        string        `mapstructure:"api_base_url"`
	APIToken          string        `mapstructure:"api_token"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`

	WebsitesFile          string        `mapstructure:"websites_file"`
	PublishersFile        string        `mapstructure:"publishers_file"`
	ReportIntervalSeconds int64         `mapstructure:"report_interval"`
	ReportInterval        time.Duration `mapstructure:"-"`
	ReportWindowDays      int           `mapstructure:"report_window_days"`
	ReportConcurrency     int           `mapstructure:"report_concurrency"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "crawlstats")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost:5000/api")
	v.SetDefault("api_token", "")
	v.SetDefault("api_timeout_seconds", 15)
	v.SetDefault("websites_file", "./configs/websites.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("report_interval", 3600) // seconds
	v.SetDefault("report_window_days", 7)
	v.SetDefault("report_concurrency", 4)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/snapshots.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("metrics_addr", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives durations.
func (cfg *Config) finalize() error {
	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if cfg.APITimeoutSeconds <= 0 {
		return fmt.Errorf("invalid api_timeout_seconds (must be positive seconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	if cfg.ReportIntervalSeconds <= 0 {
		return fmt.Errorf("invalid report_interval (must be positive seconds)")
	}
	cfg.ReportInterval = time.Duration(cfg.ReportIntervalSeconds) * time.Second
	if cfg.ReportWindowDays < 0 {
		return fmt.Errorf("invalid report_window_days (must be zero or positive)")
	}
	if cfg.ReportConcurrency <= 0 {
		return fmt.Errorf("invalid report_concurrency (must be positive)")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
