// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Search   SearchConfig   `mapstructure:"search"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Drafts   DraftsConfig   `mapstructure:"drafts"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// GatewayConfig points the client at the remote listing/application service.
type GatewayConfig struct {
	Endpoint       string  `mapstructure:"endpoint"`
	Timeout        int     `mapstructure:"timeout"` // milliseconds
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	UserAgent      string  `mapstructure:"user_agent"`
}

type SearchConfig struct {
	DefaultMode string `mapstructure:"default_mode"` // zipCode | state
}

// PaymentConfig holds the application-fee policy.
type PaymentConfig struct {
	DefaultApplicationFee float64 `mapstructure:"default_application_fee"`
}

type DraftsConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLMinutes int  `mapstructure:"ttl_minutes"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
