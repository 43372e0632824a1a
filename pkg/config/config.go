package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Scheduling SchedulingConfig
	Sync       SyncConfig
	Cache      CacheConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SchedulingConfig holds credentials and endpoint for the scheduling provider.
type SchedulingConfig struct {
	BaseURL        string
	UserID         string
	APIKey         string
	TimeoutSeconds int
}

// SyncConfig controls the periodic bulk reconciliation pass.
type SyncConfig struct {
	WindowDaysBack    int
	WindowDaysForward int
	CronSpec          string
	Enabled           bool
}

// CacheConfig holds availability cache TTLs. Availability changes quickly,
// so both TTLs are minutes, not hours.
type CacheConfig struct {
	MonthTTLSeconds int
	DayTTLSeconds   int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "mentorloop"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Scheduling: SchedulingConfig{
			BaseURL:        getEnv("ACUITY_BASE_URL", "https://acuityscheduling.com/api/v1"),
			UserID:         getEnv("ACUITY_USER_ID", ""),
			APIKey:         getEnv("ACUITY_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("ACUITY_TIMEOUT_SECONDS", 10),
		},
		Sync: SyncConfig{
			WindowDaysBack:    getEnvAsInt("SYNC_WINDOW_DAYS_BACK", 30),
			WindowDaysForward: getEnvAsInt("SYNC_WINDOW_DAYS_FORWARD", 30),
			CronSpec:          getEnv("SYNC_CRON_SPEC", "0 * * * *"),
			Enabled:           getEnvAsBool("SYNC_CRON_ENABLED", true),
		},
		Cache: CacheConfig{
			MonthTTLSeconds: getEnvAsInt("AVAILABILITY_MONTH_TTL_SECONDS", 300),
			DayTTLSeconds:   getEnvAsInt("AVAILABILITY_DAY_TTL_SECONDS", 120),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "mentorloop-backend"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// Validate reports a hard configuration error when provider credentials are
// missing. Both halves of the basic-auth pair are required.
func (c *SchedulingConfig) Validate() error {
	if c.UserID == "" || c.APIKey == "" {
		return fmt.Errorf("scheduling provider credentials not configured (ACUITY_USER_ID, ACUITY_API_KEY)")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
