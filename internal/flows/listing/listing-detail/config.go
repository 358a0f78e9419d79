// internal/flows/listing/listing-detail/config.go
package listingdetail

import (
	"time"

	"lease-client/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 15 * time.Second}
	if cfg != nil && cfg.Gateway.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Gateway.Timeout)
	}
	return c
}
