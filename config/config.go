// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	PokeAPI  PokeAPIConfig
	Sync     SyncConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port string
}

func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns a libpq connection string, usable by both pgx and lib/pq.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type PokeAPIConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	PageSize          int
}

type SyncConfig struct {
	// Schedule is a standard five-field cron expression; empty disables
	// scheduled syncs in the server.
	Schedule string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads .env (or .env.<CONF> when CONF is set) and then the environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("POKEAPI_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid POKEAPI_TIMEOUT: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("POKEAPI_RPS", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid POKEAPI_RPS: %w", err)
	}

	pageSize, err := strconv.Atoi(getEnv("POKEAPI_PAGE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid POKEAPI_PAGE_SIZE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("HOST", "0.0.0.0"),
			Port: getEnv("PORT", "8000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "pokegroups"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "pokegroups"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		PokeAPI: PokeAPIConfig{
			BaseURL:           getEnv("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2"),
			Timeout:           timeout,
			RequestsPerSecond: rps,
			PageSize:          pageSize,
		},
		Sync: SyncConfig{
			Schedule: getEnv("SYNC_SCHEDULE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PokeAPI.Timeout <= 0 {
		return errors.New("POKEAPI_TIMEOUT must be positive")
	}
	if c.PokeAPI.RequestsPerSecond < 0 {
		return errors.New("POKEAPI_RPS must not be negative")
	}
	if c.PokeAPI.PageSize < 1 || c.PokeAPI.PageSize > 1000 {
		return errors.New("POKEAPI_PAGE_SIZE must be between 1 and 1000")
	}
	if c.Sync.Schedule != "" {
		if _, err := cron.ParseStandard(c.Sync.Schedule); err != nil {
			return fmt.Errorf("invalid SYNC_SCHEDULE: %w", err)
		}
	}
	return nil
}

func loadEnvFile() error {
	conf := os.Getenv("CONF")
	file := ".env"
	if conf != "" {
		file = ".env." + conf
	}

	err := godotenv.Load(file)
	if err == nil {
		return nil
	}
	// A missing default .env is fine; a requested CONF file must exist.
	if conf == "" && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", file, err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
