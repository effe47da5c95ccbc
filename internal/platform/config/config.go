package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL string
	Port        string
	IsProduction bool

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M" for 100
	// requests per minute per client IP.
	RateLimit string

	// RecurringSweepUser is the actor recorded on batches produced by the
	// scheduled recurring sweep.
	RecurringSweepUser string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("RECURRING_SWEEP_USER", "system-recurring")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.RecurringSweepUser = viper.GetString("RECURRING_SWEEP_USER")

	return cfg, nil
}
