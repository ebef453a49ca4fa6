// Package config loads deployment configuration from the environment.
package config

import (
	"github.com/spf13/viper"
)

// Config is the deployment configuration. The administrator PIN lives
// here, never in the store.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	DBPath     string `mapstructure:"DB_PATH"`
	AdminPIN   string `mapstructure:"ADMIN_PIN"`
	LogPretty  bool   `mapstructure:"LOG_PRETTY"`
}

// Load reads configuration from environment variables with defaults.
func Load() (Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_PATH", "timeclock.db")
	viper.SetDefault("ADMIN_PIN", "1234")
	viper.SetDefault("LOG_PRETTY", false)

	viper.AutomaticEnv()

	var cfg Config
	err := viper.Unmarshal(&cfg)
	return cfg, err
}
