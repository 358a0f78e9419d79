// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModeZipCode = "zipCode"
	ModeState   = "state"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// LEASE_GATEWAY_ENDPOINT overrides gateway.endpoint
	v.SetEnvPrefix("LEASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LEASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	bindKnownKeys(v)
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// AutomaticEnv only applies to keys viper already knows about.
func bindKnownKeys(v *viper.Viper) {
	for _, key := range []string{
		"gateway.endpoint",
		"gateway.timeout",
		"gateway.rate_limit_rps",
		"gateway.rate_limit_burst",
		"search.default_mode",
		"payment.default_application_fee",
		"drafts.enabled",
		"drafts.ttl_minutes",
		"database.redis.address",
		"database.redis.password",
		"database.redis.db",
		"metrics.enabled",
		"metrics.address",
		"logging.level",
		"logging.format",
		"logging.output",
	} {
		_ = v.BindEnv(key)
	}
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Gateway.Endpoint == "" {
		if val := os.Getenv("LEASE_GATEWAY_ENDPOINT"); val != "" {
			cfg.Gateway.Endpoint = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lease-client"
	}

	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = 15000
	}
	if cfg.Gateway.RateLimitRPS == 0 {
		cfg.Gateway.RateLimitRPS = 5
	}
	if cfg.Gateway.RateLimitBurst == 0 {
		cfg.Gateway.RateLimitBurst = 5
	}
	if cfg.Gateway.UserAgent == "" {
		cfg.Gateway.UserAgent = "lease-client/" + valueOr(cfg.App.Version, "dev")
	}

	if cfg.Search.DefaultMode == "" {
		cfg.Search.DefaultMode = ModeZipCode
	}

	if cfg.Payment.DefaultApplicationFee == 0 {
		cfg.Payment.DefaultApplicationFee = 50
	}

	if cfg.Drafts.TTLMinutes == 0 {
		cfg.Drafts.TTLMinutes = 24 * 60
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Gateway.Endpoint == "" {
		return fmt.Errorf("gateway.endpoint is required")
	}
	if !strings.HasPrefix(cfg.Gateway.Endpoint, "http://") && !strings.HasPrefix(cfg.Gateway.Endpoint, "https://") {
		return fmt.Errorf("gateway.endpoint must be an http(s) URL, got %q", cfg.Gateway.Endpoint)
	}
	if cfg.Gateway.Timeout < 0 {
		return fmt.Errorf("gateway.timeout must not be negative")
	}

	switch cfg.Search.DefaultMode {
	case ModeZipCode, ModeState:
	default:
		return fmt.Errorf("search.default_mode must be %q or %q, got %q", ModeZipCode, ModeState, cfg.Search.DefaultMode)
	}

	if cfg.Payment.DefaultApplicationFee < 0 {
		return fmt.Errorf("payment.default_application_fee must not be negative")
	}

	if cfg.Drafts.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when drafts are enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// DraftTTL returns the configured draft retention.
func (c *Config) DraftTTL() time.Duration {
	return time.Duration(c.Drafts.TTLMinutes) * time.Minute
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
