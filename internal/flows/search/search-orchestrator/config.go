// internal/flows/search/search-orchestrator/config.go
package searchorchestrator

import (
	"lease-client/internal/common/config"
)

type Config struct {
	DefaultMode Mode
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{DefaultMode: ModeZipCode}
	if cfg != nil && Mode(cfg.Search.DefaultMode).Valid() {
		c.DefaultMode = Mode(cfg.Search.DefaultMode)
	}
	return c
}
