package storage

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	UseS3       bool   `envconfig:"S3_BUCKET_STORAGE" default:"false"`
	S3AccessId  string `envconfig:"S3_ACCESS_ID"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3Region    string `envconfig:"S3_REGION"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	LocalDir    string `envconfig:"UPLOAD_DIR" default:"uploads"`
	PublicPath  string `envconfig:"UPLOAD_PUBLIC_PATH" default:"/static/uploads"`
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
