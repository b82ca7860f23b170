package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"viewing-scheduler-server/internal/models"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string
	Location    *time.Location
	SeedDemo    bool
	Database    DatabaseConfig
	Catalog     CatalogConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	LogLevel    string
	LogFile     string
}

// DatabaseConfig holds database connection details. An empty Driver keeps
// appointments in memory.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
	Debug    bool
}

// CatalogConfig says where agents and properties come from.
type CatalogConfig struct {
	File     string
	SyncURL  string
	SyncCron string
}

// AuthConfig enables access control on the API. With neither a JWT secret
// nor an admin password hash set, the API is open.
type AuthConfig struct {
	JWTSecret         string
	AdminUser         string
	AdminPasswordHash string
}

// Enabled reports whether any access control is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.AdminPasswordHash != ""
}

// RateLimitConfig limits mutating requests per client. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	dbConfig, err := loadDatabase()
	if err != nil {
		return nil, err
	}

	seedDemo, err := strconv.ParseBool(getEnv("SEED_DEMO", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:5173"),
		Environment: getEnv("APP_ENV", "development"),
		Location:    loc,
		SeedDemo:    seedDemo,
		Database:    dbConfig,
		Catalog: CatalogConfig{
			File:     getEnv("CATALOG_FILE", ""),
			SyncURL:  getEnv("CATALOG_SYNC_URL", ""),
			SyncCron: getEnv("CATALOG_SYNC_CRON", "@every 15m"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			AdminUser:         getEnv("ADMIN_USER", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		RateLimit: RateLimitConfig{RPS: rps, Burst: burst},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
	}, nil
}

func loadDatabase() (DatabaseConfig, error) {
	driver := strings.ToLower(getEnv("STORE_DRIVER", "memory"))
	if driver == "memory" {
		driver = ""
	}
	debug, err := strconv.ParseBool(getEnv("DB_DEBUG", "false"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DEBUG: %w", err)
	}

	db := DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "viewings"),
		DSN:      getEnv("DB_DSN", ""),
		Debug:    debug,
	}

	switch driver {
	case "":
	case models.DriverMySQL:
		db.Port = getEnv("DB_PORT", "3306")
		if db.DSN == "" {
			db.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				db.Username, db.Password, db.Host, db.Port, db.Name)
		}
	case models.DriverPostgres:
		db.Port = getEnv("DB_PORT", "5432")
		if db.DSN == "" {
			db.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				db.Host, db.Port, db.Username, db.Password, db.Name)
		}
	case models.DriverSQLite:
		if db.DSN == "" {
			db.DSN = getEnv("DB_PATH", "viewings.db")
		}
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid STORE_DRIVER %q", driver)
	}
	return db, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
