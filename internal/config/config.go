// Package config holds the game server settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/storage"
)

// ErrInvalidConfig indicates invalid configuration values.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// AllowedOrigins are the browser origins allowed by CORS and the
	// websocket upgrade.
	AllowedOrigins []string
	// DataDir holds the game archive. Empty disables the on-disk archive.
	DataDir string
	// ClockTime is each side's time budget.
	ClockTime time.Duration
	// MatchmakingInterval is how often the queue is checked for pairs.
	MatchmakingInterval time.Duration
	LogLevel            string
	ReadBufferSize      int
	WriteBufferSize     int
}

func Default() *Config {
	return &Config{
		Addr:                ":3000",
		AllowedOrigins:      []string{"http://localhost:5173"},
		DataDir:             storage.DefaultDataDir(),
		ClockTime:           10 * time.Minute,
		MatchmakingInterval: time.Second,
		LogLevel:            "info",
		ReadBufferSize:      1024,
		WriteBufferSize:     1024,
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.ClockTime <= 0 {
		return fmt.Errorf("%w: clock time must be positive, got %v", ErrInvalidConfig, c.ClockTime)
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("%w: matchmaking interval must be positive, got %v", ErrInvalidConfig, c.MatchmakingInterval)
	}
	if c.ReadBufferSize <= 0 || c.WriteBufferSize <= 0 {
		return fmt.Errorf("%w: websocket buffer sizes must be positive", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// CORSOrigins joins the allowed origins in the form the CORS middleware takes.
func (c *Config) CORSOrigins() string {
	return strings.Join(c.AllowedOrigins, ", ")
}
