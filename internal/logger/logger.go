// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

var (
	// nullLogger is a never configured facade that discards all log messages.
	nullLogger = NewFacade()

	// ErrInvalidLevel is returned by ParseLevel for unknown level names.
	ErrInvalidLevel = errors.New("invalid log level")
)

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
	// FATAL is only used to tag host forwarded entries written by Exception.
	FATAL
)

// LevelFromString returns the level named by level, INFO for unknown names.
func LevelFromString(level string) Level {
	parsed, err := ParseLevel(level)
	if err != nil {
		return INFO
	}
	return parsed
}

// ParseLevel returns the level named by level, case insensitive.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARNING, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("%w %q", ErrInvalidLevel, level)
	}
}

func (l Level) convertedLevel() hclog.Level {
	switch l {
	case DEBUG:
		return hclog.Debug
	case INFO:
		return hclog.Info
	case WARNING:
		return hclog.Warn
	case ERROR, FATAL:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// Logger describes the interface that must be implemented by all loggers
type Logger interface {
	// WithName returns a new Logger instance with the specified name.
	WithName(name string) Logger

	// SetLevel updates the logger threshold.
	SetLevel(level Level)

	// Enabled reports whether a message at level would be emitted.
	Enabled(level Level) bool

	// Configured reports whether the logger has active sinks or host forwarding.
	Configured() bool

	// Debug emit a message and key/value pairs at the DEBUG level.
	Debug(msg string, args ...interface{})

	// Info emit a message and key/value pairs at the INFO level.
	Info(msg string, args ...interface{})

	// Warn emit a message and key/value pairs at the WARNING level.
	Warn(msg string, args ...interface{})

	// Error emit a message and key/value pairs at the ERROR level.
	Error(msg string, args ...interface{})

	// Exception emit msg and err at the most severe level, ignoring the threshold.
	Exception(err error, msg string, args ...interface{})
}

func levelFromHclog(level hclog.Level) Level {
	switch {
	case level <= hclog.Debug:
		return DEBUG
	case level == hclog.Info:
		return INFO
	case level == hclog.Warn:
		return WARNING
	default:
		return ERROR
	}
}
