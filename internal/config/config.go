// Package config provides runtime configuration values for the service.
//
// Values come from defaults, then an optional YAML file named by
// CONFIG_FILE, then environment variables; later sources win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration knobs for the HTTP server, storage and logging.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	StorageDriver   string
	StoragePath     string
	StorageKey      string
	LogLevel        string
	LogFormat       string
}

// fileConfig mirrors the YAML layout.
type fileConfig struct {
	HTTPAddr           string `yaml:"http_addr"`
	ShutdownTimeoutSec int    `yaml:"shutdown_timeout_sec"`
	Storage            struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
		Key    string `yaml:"key"`
	} `yaml:"storage"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		HTTPAddr:        ":8080",
		ShutdownTimeout: 15 * time.Second,
		StorageDriver:   "file",
		StoragePath:     "data",
		StorageKey:      "products",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, def time.Duration) time.Duration {
	sec := atoienv(key, -1)
	if sec < 0 {
		return def
	}
	return time.Duration(sec) * time.Second
}

// Load collects configuration from the sources above. An unreadable or
// malformed CONFIG_FILE is an error; everything else falls back to defaults.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.ShutdownTimeout = durenvs("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.StorageDriver = getenv("STORAGE_DRIVER", cfg.StorageDriver)
	cfg.StoragePath = getenv("STORAGE_PATH", cfg.StoragePath)
	cfg.StorageKey = getenv("STORAGE_KEY", cfg.StorageKey)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.HTTPAddr, fc.HTTPAddr)
	set(&c.StorageDriver, fc.Storage.Driver)
	set(&c.StoragePath, fc.Storage.Path)
	set(&c.StorageKey, fc.Storage.Key)
	set(&c.LogLevel, fc.Log.Level)
	set(&c.LogFormat, fc.Log.Format)
	if fc.ShutdownTimeoutSec > 0 {
		c.ShutdownTimeout = time.Duration(fc.ShutdownTimeoutSec) * time.Second
	}
	return nil
}
