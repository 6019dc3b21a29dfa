// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/mia-platform/gisutils/internal/host"
	"github.com/mia-platform/gisutils/internal/logger"
)

const (
	// HostWindow forwards log lines to the process standard error.
	HostWindow = "window"
	// HostWAPC forwards log lines to a waPC host runtime.
	HostWAPC = "wapc"
)

var (
	errParsingLoggingConfig = errors.New("error parsing logging configuration from environment variables")
	errInvalidHostKind      = errors.New("invalid GISUTILS_LOG_HOST value")
)

// LoggingConfig holds the environment-driven logging settings, the root
// command flags override them.
type LoggingConfig struct {
	Level         string `env:"GISUTILS_LOG_LEVEL" envDefault:"INFO"`
	FilePath      string `env:"GISUTILS_LOG_FILE"`
	ForwardToHost bool   `env:"GISUTILS_LOG_TO_HOST"`
	JSONFormat    bool   `env:"GISUTILS_LOG_JSON"`
	HostKind      string `env:"GISUTILS_LOG_HOST" envDefault:"window"`
	HostNamespace string `env:"GISUTILS_LOG_HOST_NAMESPACE"`
}

// LoadLoggingConfig reads the logging settings from the environment.
func LoadLoggingConfig() (*LoggingConfig, error) {
	config, err := env.ParseAs[LoggingConfig]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errParsingLoggingConfig, err.Error())
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the level and the host kind, it normalizes the host kind.
func (c *LoggingConfig) Validate() error {
	if _, err := logger.ParseLevel(c.Level); err != nil {
		return err
	}

	c.HostKind = strings.ToLower(c.HostKind)
	switch c.HostKind {
	case "":
		c.HostKind = HostWindow
	case HostWindow, HostWAPC:
	default:
		return fmt.Errorf("%w %q: possible values are %s and %s", errInvalidHostKind, c.HostKind, HostWindow, HostWAPC)
	}
	return nil
}

// LoggerConfig converts c into the facade configuration. Command results own
// stdout: the console sink, every window host bucket and waPC host call
// failures write to output.
func (c *LoggingConfig) LoggerConfig(output io.Writer) logger.Config {
	config := logger.Config{
		FilePath:      c.FilePath,
		ForwardToHost: c.ForwardToHost,
		Level:         logger.LevelFromString(c.Level),
		Console:       output,
		JSONFormat:    c.JSONFormat,
	}

	if !c.ForwardToHost {
		return config
	}

	switch c.HostKind {
	case HostWAPC:
		config.Host = host.NewWAPC(host.WAPCConfig{
			Namespace: c.HostNamespace,
			OnError: func(err error) {
				fmt.Fprintln(output, err)
			},
		})
	default:
		config.Host = host.NewWindow(output, output, output)
	}

	return config
}
