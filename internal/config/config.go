// Package config provides Viper-based configuration loading for the chess relay.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP and websocket listener settings.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ReadBufferSize and WriteBufferSize size the websocket I/O buffers.
	ReadBufferSize  int `mapstructure:"read_buffer_size"`
	WriteBufferSize int `mapstructure:"write_buffer_size"`
}

// Addr returns the "host:port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RelayConfig sizes the queues around each game relay.
type RelayConfig struct {
	// InboxSize is the capacity of a session's ordered action queue.
	InboxSize int `mapstructure:"inbox_size"`
	// OutboundSize is the per-connection send queue; a client that falls this
	// far behind is disconnected.
	OutboundSize int `mapstructure:"outbound_size"`
	// MaxGames caps concurrently running sessions. Zero means no limit.
	MaxGames int `mapstructure:"max_games"`
}

// GameConfig holds game session settings.
type GameConfig struct {
	// DefaultID names a session created at startup. Empty disables it.
	DefaultID string `mapstructure:"default_id"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Relay   RelayConfig   `mapstructure:"relay"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants and reports every violation.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRelay(c.Relay); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.ReadBufferSize < 0 {
		errs = append(errs, "server.read_buffer_size must not be negative")
	}
	if s.WriteBufferSize < 0 {
		errs = append(errs, "server.write_buffer_size must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateRelay(r RelayConfig) error {
	var errs []string
	if r.InboxSize < 1 {
		errs = append(errs, fmt.Sprintf("relay.inbox_size must be >= 1, got %d", r.InboxSize))
	}
	if r.OutboundSize < 1 {
		errs = append(errs, fmt.Sprintf("relay.outbound_size must be >= 1, got %d", r.OutboundSize))
	}
	if r.MaxGames < 0 {
		errs = append(errs, fmt.Sprintf("relay.max_games must not be negative, got %d", r.MaxGames))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from path (optional), applies CHESS_ environment
// overrides and defaults, and validates the result.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("CHESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 1981)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:1980"})
	v.SetDefault("server.read_buffer_size", 1024)
	v.SetDefault("server.write_buffer_size", 1024)

	v.SetDefault("relay.inbox_size", 256)
	v.SetDefault("relay.outbound_size", 64)
	v.SetDefault("relay.max_games", 1024)

	v.SetDefault("game.default_id", "main")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
