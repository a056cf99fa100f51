package gateway

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`
	Currency            string `envconfig:"GATEWAY_CURRENCY" default:"gbp"`
	Timeout             int    `envconfig:"GATEWAY_TIMEOUT" default:"10"` // in seconds
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
