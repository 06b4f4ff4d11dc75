// Package config loads the demo server configuration from an optional
// YAML file overlaid with RL_-prefixed environment variables.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Route  RouteConfig  `koanf:"route"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	Port int `koanf:"port"`

	// Timeout is the outer per-request budget applied by the router.
	Timeout time.Duration `koanf:"timeout"`
}

type RouteConfig struct {
	// Timeout is the default chain budget for registered routes.
	Timeout time.Duration `koanf:"timeout"`

	// MaxResponseSize caps successful response bodies in bytes.
	MaxResponseSize int64 `koanf:"max_response_size"`

	// CORSOrigins is the origin whitelist; empty means every origin.
	CORSOrigins []string `koanf:"cors_origins"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// Load reads the config file at path (skipped when absent) and then the
// environment. RL_SERVER_PORT=9000 maps to server.port and so on.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	if err := k.Load(env.Provider("RL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "RL_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("server.timeout") {
		k.Set("server.timeout", "30s")
	}
	if !k.Exists("route.timeout") {
		k.Set("route.timeout", "10s")
	}
	if !k.Exists("log.level") {
		k.Set("log.level", "info")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SlogLevel translates the configured level name, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
