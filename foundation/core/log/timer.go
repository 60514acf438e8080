// File: timer.go
// Title: Performance Timer
// Description: Measures the duration of an operation and logs it on
//              completion, with optional intermediate checkpoints.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation

package log

import (
	"time"
)

// Timer represents a performance timer for measuring operation duration
type Timer struct {
	logger    *Logger
	operation string
	start     time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer creates a new timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		start:     time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the log level for the timer completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Checkpoint logs an intermediate timing at debug level.
func (t *Timer) Checkpoint(name string, fields ...Fields) {
	if t.stopped || t.logger == nil {
		return
	}
	combined := t.fields.Merge(Fields{
		"operation":  t.operation,
		"checkpoint": name,
		"elapsed_ms": float64(t.Elapsed().Nanoseconds()) / 1e6,
	})
	for _, f := range fields {
		for k, v := range f {
			combined[k] = v
		}
	}
	t.logger.Debug(t.operation+" checkpoint: "+name, combined)
}

// Stop stops the timer and logs the elapsed time. Subsequent calls return 0.
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := t.Elapsed()

	if t.logger != nil {
		entryFields := t.fields.Merge(Fields{"operation": t.operation})
		t.logger.logTimed(t.level, t.operation+" completed", nil, elapsed, entryFields)
	}
	return elapsed
}

// StopWithError stops the timer and logs err with the elapsed time.
func (t *Timer) StopWithError(err error) time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := t.Elapsed()

	if t.logger != nil {
		entryFields := t.fields.Merge(Fields{"operation": t.operation, "success": false})
		t.logger.logTimed(LevelError, t.operation+" failed", err, elapsed, entryFields)
	}
	return elapsed
}

// Cancel stops the timer without logging.
func (t *Timer) Cancel() {
	t.stopped = true
}

// IsRunning returns true if the timer is still running
func (t *Timer) IsRunning() bool {
	return !t.stopped
}

func (l *Logger) logTimed(level Level, message string, err error, d time.Duration, fields Fields) {
	if !level.ShouldLog(l.level) {
		return
	}
	entry := NewEntry(level, message)
	entry.Logger = l.name
	entry.RunID = l.runID
	entry.Robot = l.robot
	entry.Error = err
	entry.Duration = d
	entry.Fields = l.fields.Merge(fields)

	if formatted, formatErr := l.formatter.Format(entry); formatErr == nil {
		l.out.write(formatted)
	}
}
