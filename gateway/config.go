package gateway

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ApiUrl         string `envconfig:"GATEWAY_API_URL" required:"true"`
	ApiKey         string `envconfig:"GATEWAY_API_KEY" required:"true"`
	TimeoutSeconds int    `envconfig:"GATEWAY_TIMEOUT" default:"30"`
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
