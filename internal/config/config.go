package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	GLPI     GLPIConfig     `json:"glpi"`
	Store    StoreConfig    `json:"store"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Logging  LoggingConfig  `json:"logging"`
	Security SecurityConfig `json:"security"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            string        `json:"port"`
	Host            string        `json:"host"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	Environment     string        `json:"environment"`
	// Timezone is the IANA zone used for schedules and the task board day.
	Timezone string `json:"timezone"`
}

// GLPIConfig holds the helpdesk connection. Missing values do not stop the
// process; calls fail until they are provided.
type GLPIConfig struct {
	APIURL      string        `json:"api_url"`
	AppToken    string        `json:"-"`
	UserToken   string        `json:"-"`
	KeepSession bool          `json:"keep_session"`
	Timeout     time.Duration `json:"timeout"`
}

// StoreConfig selects the document store backend
type StoreConfig struct {
	Backend   string `json:"backend"`
	KeyPrefix string `json:"key_prefix"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL            string        `json:"-"`
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"-"`
	DBName         string        `json:"dbname"`
	SSLMode        string        `json:"sslmode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleTime    time.Duration `json:"max_idle_time"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	URL      string        `json:"-"`
	Host     string        `json:"host"`
	Port     int           `json:"port"`
	Password string        `json:"-"`
	DB       int           `json:"db"`
	PoolSize int           `json:"pool_size"`
	Timeout  time.Duration `json:"timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"` // json, text
	File       string `json:"file"`
	MaxSize    int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	CORSOrigins          []string      `json:"cors_origins"`
	CORSAllowCredentials bool          `json:"cors_allow_credentials"`
	RateLimitEnabled     bool          `json:"rate_limit_enabled"`
	RateLimitRequests    int           `json:"rate_limit_requests"`
	RateLimitWindow      time.Duration `json:"rate_limit_window"`
}

// Load loads configuration from environment variables and defaults
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", getEnv("SERVER_PORT", "5000")),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			Environment:     getEnv("ENVIRONMENT", "development"),
			Timezone:        getEnv("TIMEZONE", "Local"),
		},
		GLPI: GLPIConfig{
			APIURL:      strings.TrimRight(getEnv("GLPI_API_URL", ""), "/"),
			AppToken:    getEnv("GLPI_APP_TOKEN", ""),
			UserToken:   getEnv("GLPI_USER_TOKEN", ""),
			KeepSession: getEnvBool("GLPI_KEEP_SESSION", true),
			Timeout:     getEnvDuration("GLPI_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
			KeyPrefix: getEnv("STORE_KEY_PREFIX", "deskpulse"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			DBName:         getEnv("DB_NAME", "deskpulse"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleTime:    getEnvDuration("DB_MAX_IDLE_TIME", 30*time.Minute),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
			Timeout:  getEnvDuration("REDIS_TIMEOUT", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       getEnv("LOG_FILE", ""),
			MaxSize:    getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnvBool("LOG_COMPRESS", false),
		},
		Security: SecurityConfig{
			CORSOrigins:          getEnvSlice("CORS_ORIGINS", []string{"*"}),
			CORSAllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
			RateLimitEnabled:     getEnvBool("RATE_LIMIT_ENABLED", false),
			RateLimitRequests:    getEnvInt("RATE_LIMIT_REQUESTS", 300),
			RateLimitWindow:      getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %q", c.Server.Port)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Server.Timezone, err)
	}

	switch c.Store.Backend {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.Database.URL == "" && (c.Database.Host == "" || c.Database.DBName == "") {
			return fmt.Errorf("database host and name are required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}

	if c.Security.RateLimitEnabled && c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" || c.Server.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Server.Timezone)
}

// GLPIVars reports which GLPI variables are set, keyed by variable name.
func (c *Config) GLPIVars() map[string]bool {
	return map[string]bool{
		"GLPI_API_URL":    c.GLPI.APIURL != "",
		"GLPI_APP_TOKEN":  c.GLPI.AppToken != "",
		"GLPI_USER_TOKEN": c.GLPI.UserToken != "",
	}
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Address returns the listen address
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GetDatabaseURL returns the database connection string
func (c *Config) GetDatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
		int(c.Database.ConnectTimeout.Seconds()),
	)
}

// GetRedisURL returns the Redis connection URL
func (c *Config) GetRedisURL() string {
	if c.Redis.URL != "" {
		return c.Redis.URL
	}
	if c.Redis.Password != "" {
		return fmt.Sprintf("redis://:%s@%s:%d/%d", c.Redis.Password, c.Redis.Host, c.Redis.Port, c.Redis.DB)
	}
	return fmt.Sprintf("redis://%s:%d/%d", c.Redis.Host, c.Redis.Port, c.Redis.DB)
}

// Helper functions for environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
