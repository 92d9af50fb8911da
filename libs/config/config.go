// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Migration MigrationConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// URL is a full go-sql-driver/mysql DSN and wins over the discrete fields when set
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port               int
	RateLimitPerMinute int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SecurityConfig holds password hashing settings
type SecurityConfig struct {
	BcryptCost int
}

// MigrationConfig holds schema migration settings
type MigrationConfig struct {
	// Secret guards the /admin maintenance endpoints, empty disables them
	Secret      string
	AutoMigrate bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		dbHost := os.Getenv("DB_HOST")
		if dbHost == "" {
			return nil, fmt.Errorf("DATABASE_URL or DB_HOST is required")
		}
		cfg.Database.Host = dbHost

		dbPortStr := os.Getenv("DB_PORT")
		if dbPortStr == "" {
			dbPortStr = "3306"
		}
		dbPort, err := strconv.Atoi(dbPortStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT: %w", err)
		}
		cfg.Database.Port = dbPort

		dbUser := os.Getenv("DB_USER")
		if dbUser == "" {
			return nil, fmt.Errorf("DB_USER is required")
		}
		cfg.Database.User = dbUser

		cfg.Database.Password = os.Getenv("DB_PASSWORD")

		dbName := os.Getenv("DB_NAME")
		if dbName == "" {
			return nil, fmt.Errorf("DB_NAME is required")
		}
		cfg.Database.DBName = dbName
	}

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	rateLimitStr := os.Getenv("RATE_LIMIT_PER_MINUTE")
	if rateLimitStr == "" {
		rateLimitStr = "100"
	}
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %q", rateLimitStr)
	}
	cfg.Server.RateLimitPerMinute = rateLimit

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	// Access token expiry (default: 60 minutes)
	accessExpiryStr := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")
	if accessExpiryStr == "" {
		accessExpiryStr = "60m"
	}
	accessExpiry, err := time.ParseDuration(accessExpiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	// Password hashing cost
	cfg.Security.BcryptCost = bcrypt.DefaultCost
	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %q", costStr)
		}
		cfg.Security.BcryptCost = cost
	}

	// Migration endpoint secret (optional) and start-up migrations flag
	cfg.Migration.Secret = os.Getenv("MIGRATE_SECRET")
	if autoMigrateStr := os.Getenv("AUTO_MIGRATE"); autoMigrateStr != "" {
		autoMigrate, err := strconv.ParseBool(autoMigrateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
		}
		cfg.Migration.AutoMigrate = autoMigrate
	}

	return cfg, nil
}

// parseOrigins splits a comma-separated origins list, defaulting to "*"
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}
	origins := strings.Split(raw, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

// DSN returns the database connection string.
//
// parseTime is always enabled so DATETIME columns scan into time.Time, and multiStatements is
// required by golang-migrate for files holding more than one statement. The driver's default
// collation (utf8mb4_general_ci) is kept.
// Empty string is returned when no database settings are present.
func (c *Config) DSN() string {
	if c.Database.URL == "" && c.Database.Host == "" {
		return ""
	}

	var mc *mysql.Config
	if c.Database.URL != "" {
		parsed, err := mysql.ParseDSN(c.Database.URL)
		if err != nil {
			// Leave validation to sql.Open which reports the same parse error
			return c.Database.URL
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.User = c.Database.User
		mc.Passwd = c.Database.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
		mc.DBName = c.Database.DBName
	}

	mc.ParseTime = true
	mc.MultiStatements = true
	return mc.FormatDSN()
}
