package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Provider ProviderConfig
	DB       DBConfig
	Server   ServerConfig
	Log      LogConfig
}

// ProviderConfig holds movie metadata provider (TMDB) configuration
type ProviderConfig struct {
	Token        string        `envconfig:"TMDB_API_TOKEN" required:"true"`
	BaseURL      string        `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	ImageBaseURL string        `envconfig:"TMDB_IMAGE_BASE_URL" default:"https://image.tmdb.org/t/p/w500"`
	Language     string        `envconfig:"TMDB_LANGUAGE" default:"en-US"`
	IncludeAdult bool          `envconfig:"TMDB_INCLUDE_ADULT" default:"true"`
	Timeout      time.Duration `envconfig:"TMDB_TIMEOUT" default:"15s"`
}

// DBConfig holds database configuration
type DBConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	Path     string `envconfig:"DB_PATH" default:"movies.db"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASSWORD"`
	Database string `envconfig:"DB_NAME" default:"top_movies"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int           `envconfig:"SERVER_PORT" default:"8080"`
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SecureCookies bool          `envconfig:"SERVER_SECURE_COOKIES" default:"false"`
	ReadTimeout   time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout  time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// DSN returns the data source name for the configured driver
func (c *DBConfig) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		port := c.Port
		if port == 0 {
			port = 3306
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, port, c.Database)
	case DriverPostgres:
		port := c.Port
		if port == 0 {
			port = 5432
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			c.Host, c.User, c.Password, c.Database, port)
	default:
		return c.Path
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.Provider); err != nil {
		return nil, fmt.Errorf("failed to load provider config: %w", err)
	}

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
	if c.Provider.Token == "" {
		return fmt.Errorf("TMDB_API_TOKEN is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("TMDB_BASE_URL is required")
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case DriverMySQL, DriverPostgres:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for %s", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	return nil
}
