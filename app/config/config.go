package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config app configuration
type Config struct {
	JWTKey string `mapstructure:"jwtKey"`
	// SweepInterval enables the in-process retention sweep when positive;
	// zero leaves sweeping to the maintenance endpoint.
	SweepInterval time.Duration `mapstructure:"sweepInterval"`
}

// InitConfig initialize app configuration
func InitConfig() (*Config, error) {
	config := &Config{}
	subv := viper.Sub("app")
	err := subv.Unmarshal(&config)
	return config, err
}
