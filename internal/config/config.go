package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = 3000
	defaultShutdownTimeout = 5 * time.Second
)

type Config struct {
	Port            int
	LogLevel        string
	LogJSON         bool
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	// Warnings lists problems found while loading, for the caller to log once
	// the logger is configured. Each problem fell back to a default.
	Warnings []string
}

// Load reads .env when present and then the process environment.
// Invalid values fall back to their defaults with a warning.
func Load() *Config {
	warnings := loadDotEnv()
	cfg := FromEnv(os.Getenv)
	cfg.Warnings = append(warnings, cfg.Warnings...)
	return cfg
}

// loadDotEnv loads the given env files (".env" when none are named). A missing
// file is not a problem; any other failure becomes a warning.
func loadDotEnv(filenames ...string) []string {
	err := godotenv.Load(filenames...)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return []string{fmt.Sprintf("ignoring env file: %v", err)}
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) *Config {
	cfg := &Config{
		Port:            defaultPort,
		LogLevel:        "info",
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: defaultShutdownTimeout,
	}

	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port <= 65535 {
			cfg.Port = port
		} else {
			cfg.warnf("invalid PORT %q, using default %d", v, defaultPort)
		}
	}

	if v := strings.ToLower(getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	cfg.LogJSON = strings.EqualFold(getenv("LOG_FORMAT"), "json")

	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	if v := getenv("SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ShutdownTimeout = d
		} else {
			cfg.warnf("invalid SHUTDOWN_TIMEOUT %q, using default %s", v, defaultShutdownTimeout)
		}
	}

	return cfg
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
