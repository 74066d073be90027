package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration, read from the environment.
type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.AutomaticEnv()

	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("LOG_LEVEL")

	var cfg Config
	err := viper.Unmarshal(&cfg)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	return cfg, err
}
