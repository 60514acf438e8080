// ============================================================================
// robogame - Robot Script Arena
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating foundation loggers from
//              command line and configuration settings
// Author:      Mike Stoffels
// Created:     2026-10-06
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"

	rglog "github.com/msto63/robogame/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name, printed as the logger name
	ServiceName string

	// Log level (trace, debug, info, warn, error, audit)
	Level string

	// Output format (json, text, console, logfmt). Default: console
	Format string

	// Output writer. Default: os.Stderr
	Output io.Writer

	// Additional outputs (log files, test buffers)
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "console",
	}
}

// NewLogger creates a foundation logger. Unknown levels and formats are
// reported as an error together with a usable fallback logger.
func NewLogger(cfg LoggerConfig) (*rglog.Logger, error) {
	var problems []error

	level, err := rglog.ParseLevel(cfg.Level)
	if err != nil {
		problems = append(problems, err)
		level = rglog.LevelInfo
	}

	format, err := rglog.ParseFormat(cfg.Format)
	if err != nil {
		problems = append(problems, err)
		format = rglog.FormatConsole
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	logger := rglog.NewWithConfig(rglog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})

	if len(problems) > 0 {
		return logger, fmt.Errorf("invalid logger configuration: %v", problems[0])
	}
	return logger, nil
}

// NewSimpleLogger creates a console logger at info level
func NewSimpleLogger(serviceName string) *rglog.Logger {
	logger, _ := NewLogger(DefaultLoggerConfig(serviceName))
	return logger
}

// OpenLogFile opens path for appending, creating it if necessary
func OpenLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
