// internal/flows/application/form-wizard/config.go
package formwizard

import (
	"time"

	"lease-client/internal/common/config"
)

type Config struct {
	DefaultApplicationFee float64
	StoreTimeout          time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		DefaultApplicationFee: 50,
		StoreTimeout:          3 * time.Second,
	}
	if cfg != nil && cfg.Payment.DefaultApplicationFee > 0 {
		c.DefaultApplicationFee = cfg.Payment.DefaultApplicationFee
	}
	return c
}
