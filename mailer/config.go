package mailer

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Host        string `envconfig:"MAIL_HOST" default:"smtp.gmail.com"`
	Port        int    `envconfig:"MAIL_PORT" default:"465"`
	Username    string `envconfig:"MAIL_USERNAME"`
	Password    string `envconfig:"MAIL_PASSWORD"`
	FromAddress string `envconfig:"MAIL_FROM_ADDRESS"`
	FromName    string `envconfig:"MAIL_FROM_NAME" default:"PMP"`
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
