// internal/flows/application/draft-store/config.go
package draftstore

import (
	"time"

	"lease-client/internal/common/config"
)

const KeyPrefix = "lease:draft:"

type Config struct {
	TTL time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{TTL: 24 * time.Hour}
	if cfg != nil {
		if ttl := cfg.DraftTTL(); ttl > 0 {
			c.TTL = ttl
		}
	}
	return c
}
