package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

type Config struct {
	LogLevel          string        `yaml:"logLevel"`
	Port              int           `yaml:"port"`
	StoreBackend      string        `yaml:"storeBackend"`
	SQLitePath        string        `yaml:"sqlitePath"`
	ProjectID         string        `yaml:"projectId"`
	StorageKey        string        `yaml:"storageKey"`
	HighlightInterval time.Duration `yaml:"highlightInterval"`
	SearchDebounce    time.Duration `yaml:"searchDebounce"`
}

func defaults() *Config {
	return &Config{
		LogLevel:          "info",
		Port:              8080,
		StoreBackend:      BackendSQLite,
		SQLitePath:        "dashboard.db",
		StorageKey:        "dashboard-state",
		HighlightInterval: 5 * time.Second,
		SearchDebounce:    300 * time.Millisecond,
	}
}

// New builds the config from defaults, then the YAML file named by
// CONFIGFILE (if any), then environment variables.
func New() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIGFILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.overlayEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) overlayFile(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() error {
	setString(&c.LogLevel, "LOGLEVEL")
	setString(&c.StoreBackend, "STOREBACKEND")
	setString(&c.SQLitePath, "SQLITEPATH")
	setString(&c.ProjectID, "PROJECTID")
	setString(&c.StorageKey, "STORAGEKEY")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	if err := setDuration(&c.HighlightInterval, "HIGHLIGHTINTERVAL"); err != nil {
		return err
	}
	return setDuration(&c.SearchDebounce, "SEARCHDEBOUNCE")
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite:
	case BackendFirestore:
		if c.ProjectID == "" {
			return errors.New("PROJECTID is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.StorageKey == "" {
		return errors.New("storage key must not be empty")
	}
	return nil
}

// ---- Helpers ----

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
