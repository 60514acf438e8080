// File: logger.go
// Title: Core Logger Implementation
// Description: Implements the Logger type. Loggers are immutable: every With*
//              method returns a clone sharing the same synchronized output, so
//              components can derive their own context without coordination.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-10-03
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation
// - 2026-10-03 v0.1.0: Added run and robot context

package log

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	rgerror "github.com/msto63/robogame/foundation/core/error"
)

// Logger represents a structured logger with contextual information
type Logger struct {
	level     Level
	formatter Formatter
	out       *syncWriter
	name      string

	fields Fields
	runID  string
	robot  string
}

// Config represents logger configuration
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(p)
}

// New creates a console logger on stderr at info level.
func New() *Logger {
	return NewWithConfig(Config{Level: LevelInfo, Format: FormatConsole})
}

// NewWithConfig creates a new logger with the specified configuration
func NewWithConfig(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		level:     config.Level,
		formatter: GetFormatter(config.Format),
		out:       &syncWriter{w: output},
		name:      config.Name,
		fields:    make(Fields),
	}
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return NewWithConfig(Config{Level: LevelError, Output: io.Discard})
}

func (l *Logger) clone() *Logger {
	c := *l
	c.fields = l.fields.Clone()
	if c.fields == nil {
		c.fields = make(Fields)
	}
	return &c
}

// WithLevel returns a clone with the minimum level set.
func (l *Logger) WithLevel(level Level) *Logger {
	c := l.clone()
	c.level = level
	return c
}

// WithFormat returns a clone using the given format.
func (l *Logger) WithFormat(format Format) *Logger {
	c := l.clone()
	c.formatter = GetFormatter(format)
	return c
}

// WithOutput returns a clone writing to output.
func (l *Logger) WithOutput(output io.Writer) *Logger {
	c := l.clone()
	c.out = &syncWriter{w: output}
	return c
}

// WithName returns a clone with the logger name set.
func (l *Logger) WithName(name string) *Logger {
	c := l.clone()
	c.name = name
	return c
}

// WithField adds a persistent field to all log entries
func (l *Logger) WithField(key string, value interface{}) *Logger {
	c := l.clone()
	c.fields[key] = value
	return c
}

// WithFields adds persistent fields to all log entries
func (l *Logger) WithFields(fields Fields) *Logger {
	c := l.clone()
	for k, v := range fields {
		c.fields[k] = v
	}
	return c
}

// WithRun tags all entries with a run ID.
func (l *Logger) WithRun(runID string) *Logger {
	c := l.clone()
	c.runID = runID
	return c
}

// WithRobot tags all entries with a robot name.
func (l *Logger) WithRobot(robot string) *Logger {
	c := l.clone()
	c.robot = robot
	return c
}

// Trace logs a trace level message
func (l *Logger) Trace(message string, fields ...Fields) {
	l.log(LevelTrace, message, nil, fields...)
}

// Debug logs a debug level message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, fields...)
}

// Info logs an info level message
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, fields...)
}

// Warn logs a warning level message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, fields...)
}

// Error logs an error level message
func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, fields...)
}

// Audit logs an audit level message (always logged regardless of level)
func (l *Logger) Audit(message string, fields ...Fields) {
	l.log(LevelAudit, message, nil, fields...)
}

// ErrorWithErr logs an error with an error object
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, fields...)
}

// WarnWithErr logs a warning with an error object
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, fields...)
}

// LogError logs err at a level derived from its severity. Details of a
// structured error are flattened into error_* fields.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}

	e, ok := err.(*rgerror.Error)
	if !ok {
		l.log(LevelError, err.Error(), err)
		return
	}

	fields := Fields{
		"error_code":     e.Code(),
		"error_severity": e.Severity().String(),
	}
	if op := e.Operation(); op != "" {
		fields["error_operation"] = op
	}
	for k, v := range e.Details() {
		fields["error_"+k] = v
	}

	level := LevelError
	switch e.Severity() {
	case rgerror.SeverityLow:
		level = LevelInfo
	case rgerror.SeverityMedium:
		level = LevelWarn
	}
	l.log(level, e.Message(), err, fields)
}

// StartTimer creates and starts a new performance timer
func (l *Logger) StartTimer(operation string) *Timer {
	return NewTimer(l, operation)
}

// IsLevelEnabled returns true if the given level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.level)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	return l.level
}

func (l *Logger) log(level Level, message string, err error, fields ...Fields) {
	if !level.ShouldLog(l.level) {
		return
	}

	entry := NewEntry(level, message)
	entry.Logger = l.name
	entry.RunID = l.runID
	entry.Robot = l.robot
	entry.Error = err
	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, set := range fields {
		for k, v := range set {
			entry.Fields[k] = v
		}
	}

	if formatted, formatErr := l.formatter.Format(entry); formatErr == nil {
		l.out.write(formatted)
	}
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New())
}

// GetDefault returns the process-wide default logger.
func GetDefault() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide default logger.
func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}
