package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// ApplicationConfiguration config specific to the client application.
type ApplicationConfiguration struct {
	// LogLevel is one of zap levels (debug, info, warn, error).
	LogLevel string `yaml:"LogLevel"`
	// LogPath is a file to write logs to, stderr is used if it's empty.
	LogPath    string       `yaml:"LogPath"`
	Prometheus BasicService `yaml:"Prometheus"`
}

// Validate checks ApplicationConfiguration for internal consistency.
func (a ApplicationConfiguration) Validate() error {
	if a.LogLevel != "" {
		if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
			return fmt.Errorf("invalid LogLevel: %w", err)
		}
	}
	if a.Prometheus.Enabled && len(a.Prometheus.Addresses) == 0 {
		return errors.New("Prometheus is enabled, but no Addresses are given")
	}
	return nil
}
