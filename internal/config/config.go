// Package config loads application configuration with viper.
//
// Sources, in priority order: environment variables (prefix TW2_, dots in
// keys become underscores — TW2_SERVER_PORT overrides server.port), an
// optional tw2.yaml in the working directory, then the defaults below.
// Load is called exactly once, from main; everything downstream receives
// the typed Config value instead of reaching into viper.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved application configuration.
type Config struct {
	Server struct {
		Port int
	}
	DB struct {
		Path string
	}
	Storage struct {
		ImagesDir  string
		AvatarsDir string
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from defaults, tw2.yaml (if present) and the
// environment. The JWT secret has no default — a server without one cannot
// issue or validate sessions, so Load fails fast instead.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("db.path", "data/tw2.db")
	v.SetDefault("storage.images_dir", "data/images")
	v.SetDefault("storage.avatars_dir", "data/avatars")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("log.level", "info")

	v.SetConfigName("tw2")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TW2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// The yaml file is optional; anything else (malformed yaml,
		// permission problems) is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading tw2.yaml: %w", err)
		}
	}

	var cfg Config
	cfg.Server.Port = v.GetInt("server.port")
	cfg.DB.Path = v.GetString("db.path")
	cfg.Storage.ImagesDir = v.GetString("storage.images_dir")
	cfg.Storage.AvatarsDir = v.GetString("storage.avatars_dir")
	cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	cfg.Log.Level = v.GetString("log.level")

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("config: auth.jwt_secret (TW2_AUTH_JWT_SECRET) is required")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: auth.token_ttl must be positive")
	}

	return &cfg, nil
}

// SlogLevel translates the configured level name for slog. Unknown names
// fall back to Info rather than failing startup.
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
