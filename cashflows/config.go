package cashflows

import (
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreKindDatabase = "database"
	StoreKindAPI      = "api"
)

type Config struct {
	StoreKind string `envconfig:"CASHFLOW_STORE_KIND" default:"database"` //database, api

	// settings for the api store
	CashflowAPIBaseUrl string `envconfig:"CASHFLOW_API_BASE_URL"`
	CashflowAPIKey     string `envconfig:"CASHFLOW_API_KEY"`
	CommsAPIBaseUrl    string `envconfig:"COMMS_API_BASE_URL"`
	CommsAPIKey        string `envconfig:"COMMS_API_KEY"`
	APITimeout         int    `envconfig:"CASHFLOW_API_TIMEOUT" default:"15"`    // in seconds
	ClaimTTL           int    `envconfig:"CASHFLOW_CLAIM_TTL" default:"300"`     // in seconds, clamped to the worst-case apply duration
	APIMaxRetries      uint64 `envconfig:"CASHFLOW_API_MAX_RETRIES" default:"3"` // lookup retries
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
