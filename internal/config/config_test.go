package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithRequiredEnvVars(t *testing.T) {
	os.Setenv("TMDB_API_TOKEN", "test-token-123")
	defer os.Unsetenv("TMDB_API_TOKEN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider.Token != "test-token-123" {
		t.Errorf("Provider.Token = %v, want %v", cfg.Provider.Token, "test-token-123")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Setenv("TMDB_API_TOKEN", "test-token")
	defer os.Unsetenv("TMDB_API_TOKEN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Provider defaults
	if cfg.Provider.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Provider.BaseURL = %v, want %v", cfg.Provider.BaseURL, "https://api.themoviedb.org/3")
	}
	if cfg.Provider.ImageBaseURL != "https://image.tmdb.org/t/p/w500" {
		t.Errorf("Provider.ImageBaseURL = %v, want %v", cfg.Provider.ImageBaseURL, "https://image.tmdb.org/t/p/w500")
	}
	if cfg.Provider.Language != "en-US" {
		t.Errorf("Provider.Language = %v, want %v", cfg.Provider.Language, "en-US")
	}
	if !cfg.Provider.IncludeAdult {
		t.Errorf("Provider.IncludeAdult = %v, want %v", cfg.Provider.IncludeAdult, true)
	}
	if cfg.Provider.Timeout != 15*time.Second {
		t.Errorf("Provider.Timeout = %v, want %v", cfg.Provider.Timeout, 15*time.Second)
	}

	// DB defaults
	if cfg.DB.Driver != DriverSQLite {
		t.Errorf("DB.Driver = %v, want %v", cfg.DB.Driver, DriverSQLite)
	}
	if cfg.DB.Path != "movies.db" {
		t.Errorf("DB.Path = %v, want %v", cfg.DB.Path, "movies.db")
	}
	if cfg.DB.MaxConns != 10 {
		t.Errorf("DB.MaxConns = %v, want %v", cfg.DB.MaxConns, 10)
	}

	// Server defaults
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, 8080)
	}
	if cfg.Server.SessionSecret != "" {
		t.Errorf("Server.SessionSecret = %q, want empty", cfg.Server.SessionSecret)
	}
	if cfg.Server.SecureCookies {
		t.Errorf("Server.SecureCookies = %v, want %v", cfg.Server.SecureCookies, false)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %v, want %v", cfg.Log.Level, "info")
	}
}

func TestLoad_MissingToken(t *testing.T) {
	os.Unsetenv("TMDB_API_TOKEN")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing TMDB_API_TOKEN, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Provider: ProviderConfig{Token: "token", BaseURL: "https://api.example.com", Timeout: time.Second},
			DB:       DBConfig{Driver: DriverSQLite, Path: "movies.db", MaxConns: 1},
			Server:   ServerConfig{Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing token", mutate: func(c *Config) { c.Provider.Token = "" }, wantErr: true},
		{name: "missing base url", mutate: func(c *Config) { c.Provider.BaseURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Provider.Timeout = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "oracle" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.DB.Path = "" }, wantErr: true},
		{name: "mysql without password", mutate: func(c *Config) { c.DB.Driver = DriverMySQL }, wantErr: true},
		{
			name: "postgres with password",
			mutate: func(c *Config) {
				c.DB.Driver = DriverPostgres
				c.DB.Password = "secret"
			},
			wantErr: false,
		},
		{name: "zero max conns", mutate: func(c *Config) { c.DB.MaxConns = 0 }, wantErr: true},
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      DBConfig
		expected string
	}{
		{
			name: "mysql",
			cfg: DBConfig{
				Driver:   DriverMySQL,
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "secret",
				Database: "testdb",
			},
			expected: "root:secret@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "mysql default port",
			cfg: DBConfig{
				Driver:   DriverMySQL,
				Host:     "db",
				User:     "root",
				Password: "secret",
				Database: "testdb",
			},
			expected: "root:secret@tcp(db:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "postgres default port",
			cfg: DBConfig{
				Driver:   DriverPostgres,
				Host:     "localhost",
				User:     "movies",
				Password: "secret",
				Database: "testdb",
			},
			expected: "host=localhost user=movies password=secret dbname=testdb port=5432 sslmode=disable TimeZone=UTC",
		},
		{
			name:     "sqlite",
			cfg:      DBConfig{Driver: DriverSQLite, Path: "/tmp/movies.db"},
			expected: "/tmp/movies.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.expected {
				t.Errorf("DSN() = %v, want %v", got, tt.expected)
			}
		})
	}
}
