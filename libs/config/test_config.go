package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration from the .env file or environment variables for integration tests
// If .env file doesn't exist or environment variables are not set, returns a Config with empty database values
// which allows tests to fall back to a throwaway container
func LoadTestConfig() (*Config, error) {
	// Try loading from project root, then from the working directory
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.JWT.Secret = os.Getenv("TEST_JWT_SECRET")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "test-secret-key-for-integration-tests"
	}

	accessExpiryStr := os.Getenv("TEST_JWT_ACCESS_TOKEN_EXPIRY")
	if accessExpiryStr == "" {
		accessExpiryStr = "60m"
	}
	accessExpiry, err := time.ParseDuration(accessExpiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	cfg.Migration.Secret = os.Getenv("TEST_MIGRATE_SECRET")
	if cfg.Migration.Secret == "" {
		cfg.Migration.Secret = "test-migrate-secret"
	}

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		cfg.Database.URL = url
		return cfg, nil
	}

	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		// Return config without database settings to allow the container fallback
		return cfg, nil
	}

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "3306"
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}

	dbUser := os.Getenv("TEST_DB_USER")
	dbName := os.Getenv("TEST_DB_NAME")
	if dbUser == "" || dbName == "" {
		return cfg, nil
	}

	cfg.Database.Host = dbHost
	cfg.Database.Port = dbPort
	cfg.Database.User = dbUser
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = dbName

	return cfg, nil
}
