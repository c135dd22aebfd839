package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Airtable AirtableConfig `mapstructure:"airtable"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type AirtableConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseID  string `mapstructure:"base_id"`
	BaseURL string `mapstructure:"base_url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the environment: AIRTABLE_API_KEY,
// AIRTABLE_BASE_ID, SERVER_PORT, LOGGING_LEVEL, LOGGING_FORMAT.
// The store credentials have no defaults and must be present.
func Load() (*Config, error) {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("airtable.base_url", "https://api.airtable.com/v0")
	// Registered empty so AutomaticEnv can populate them through Unmarshal.
	viper.SetDefault("airtable.api_key", "")
	viper.SetDefault("airtable.base_id", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Airtable.APIKey == "" {
		return nil, errors.New("AIRTABLE_API_KEY is not set")
	}
	if config.Airtable.BaseID == "" {
		return nil, errors.New("AIRTABLE_BASE_ID is not set")
	}

	return &config, nil
}
