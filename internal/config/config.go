package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported database drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds all application configuration
type Config struct {
	DB     DBConfig
	Server ServerConfig
	Log    LogConfig
}

// DBConfig holds database configuration
type DBConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"mysql"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASSWORD"`
	Database string `envconfig:"DB_NAME" default:"catalog"`
	Path     string `envconfig:"DB_PATH" default:"catalog.db"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
	Debug    bool   `envconfig:"DB_DEBUG" default:"false"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int     `envconfig:"SERVER_PORT" default:"8080"`
	CORSOrigins string  `envconfig:"CORS_ORIGINS" default:"*"`
	RateLimit   float64 `envconfig:"RATE_LIMIT" default:"0"`
	RateBurst   int     `envconfig:"RATE_BURST" default:"20"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// DSN returns the MySQL data source name
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Origins splits CORS_ORIGINS into a list, dropping empty entries
func (c *ServerConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	if err := envconfig.Process("", &cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to load db config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMySQL:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the mysql driver")
		}
	case DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverMySQL, DriverSQLite, c.DB.Driver)
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		return fmt.Errorf("RATE_BURST must be positive when RATE_LIMIT is set")
	}
	return nil
}
