// internal/flows/payment/payment-submitter/config.go
package paymentsubmitter

import (
	"time"

	"lease-client/internal/common/config"
)

type Config struct {
	DefaultApplicationFee float64
	ProcessingFee         float64
	Timeout               time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		DefaultApplicationFee: 50,
		ProcessingFee:         0,
		Timeout:               15 * time.Second,
	}
	if cfg == nil {
		return c
	}
	if cfg.Payment.DefaultApplicationFee > 0 {
		c.DefaultApplicationFee = cfg.Payment.DefaultApplicationFee
	}
	if cfg.Gateway.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Gateway.Timeout)
	}
	return c
}
