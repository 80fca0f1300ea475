// Package config loads settings for the task server and the terminal client.
//
// Sources are applied in priority order:
//  1. Defaults
//  2. TOML file (TASKS_CONFIG, or taskmanager.toml in the working directory)
//  3. Environment variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultConfigFile is read from the working directory when TASKS_CONFIG is unset.
	DefaultConfigFile = "taskmanager.toml"

	DefaultPort        = 3000
	DefaultDatabaseURL = "./tasks.db"
	DefaultLogLevel    = "info"
	DefaultGinMode     = "release"
	DefaultAPIURL      = "http://localhost:3000/api/v1"
)

// Config holds server and client settings.
type Config struct {
	Port        int    `toml:"port"`
	DatabaseURL string `toml:"database_url"`
	// ClientOrigin is the only origin allowed by CORS. Empty disables CORS headers.
	ClientOrigin string `toml:"client_origin"`
	LogLevel     string `toml:"log_level"`
	GinMode      string `toml:"gin_mode"`

	// APIURL is where the terminal client finds the task service.
	APIURL string `toml:"api_url"`

	// File is the config file that was read, if any.
	File string `toml:"-"`
}

// Load builds a Config from defaults, the config file and the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	path := os.Getenv("TASKS_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := loadConfigFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else {
		cfg.File = path
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Port = DefaultPort
	cfg.DatabaseURL = DefaultDatabaseURL
	cfg.LogLevel = DefaultLogLevel
	cfg.GinMode = DefaultGinMode
	cfg.APIURL = DefaultAPIURL
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("CLIENT_ORIGIN"); v != "" {
		cfg.ClientOrigin = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.GinMode = v
	}
	if v := os.Getenv("TASKS_API_URL"); v != "" {
		cfg.APIURL = v
	}
	return nil
}

// Validate rejects settings the server can not start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database_url is required")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin_mode %q, must be one of: debug, release, test", c.GinMode)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
