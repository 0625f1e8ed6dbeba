package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	Database DatabaseConfig
	JWT      JWTConfig
	Payout   PayoutConfig
	TestMode bool
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

// PayoutConfig holds the default per-tonne rates used when a payout
// request does not override them.
type PayoutConfig struct {
	BasePrice      float64
	SubsidyRate    float64
	BalingCostRate float64
	LogisticsRate  float64
}

func Load() (*Config, error) {
	godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Payout: PayoutConfig{
			BasePrice:      getEnvFloat("PAYOUT_BASE_PRICE", 2000),
			SubsidyRate:    getEnvFloat("PAYOUT_SUBSIDY_RATE", 500),
			BalingCostRate: getEnvFloat("PAYOUT_BALING_COST_RATE", 300),
			LogisticsRate:  getEnvFloat("PAYOUT_LOGISTICS_RATE", 150),
		},
		TestMode: getEnv("TEST_MODE", "false") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
