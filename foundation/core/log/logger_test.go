// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, contextual clones, levels,
//              error integration and formatters.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-10-03
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation
// - 2026-10-03 v0.1.0: Run and robot context tests

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	rgerror "github.com/msto63/robogame/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf}), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &data); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	return data
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		min     Level
		log     func(l *Logger)
		written bool
	}{
		{"debug below info", LevelInfo, func(l *Logger) { l.Debug("x") }, false},
		{"info at info", LevelInfo, func(l *Logger) { l.Info("x") }, true},
		{"warn above info", LevelInfo, func(l *Logger) { l.Warn("x") }, true},
		{"audit ignores level", LevelError, func(l *Logger) { l.Audit("x") }, true},
		{"trace at trace", LevelTrace, func(l *Logger) { l.Trace("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.min, FormatJSON)
			tt.log(logger)
			if got := buf.Len() > 0; got != tt.written {
				t.Errorf("written = %v, want %v", got, tt.written)
			}
		})
	}
}

func TestWithFieldIsImmutable(t *testing.T) {
	base, buf := newBufferLogger(LevelInfo, FormatJSON)
	derived := base.WithField("component", "arena")

	base.Info("from base")
	data := decodeLine(t, buf)
	if _, ok := data["component"]; ok {
		t.Error("WithField() must not modify the original logger")
	}

	buf.Reset()
	derived.Info("from derived")
	data = decodeLine(t, buf)
	if data["component"] != "arena" {
		t.Errorf("component = %v, want arena", data["component"])
	}
}

func TestRunAndRobotContext(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.WithRun("run-1").WithRobot("red").Info("moved", Fields{"tick": 3})

	data := decodeLine(t, buf)
	if data["run_id"] != "run-1" {
		t.Errorf("run_id = %v", data["run_id"])
	}
	if data["robot"] != "red" {
		t.Errorf("robot = %v", data["robot"])
	}
	if data["tick"] != float64(3) {
		t.Errorf("tick = %v", data["tick"])
	}
}

func TestLogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"syntax error is info", rgerror.New("bad token").WithCode(rgerror.CodeScriptSyntax), "info"},
		{"runtime error is warn", rgerror.New("div").WithCode(rgerror.CodeDivisionByZero), "warn"},
		{"database error is error", rgerror.New("db").WithCode(rgerror.CodeDatabaseError), "error"},
		{"plain error is error", errors.New("plain"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)
			data := decodeLine(t, buf)
			if data["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", data["level"], tt.wantLevel)
			}
		})
	}

	logger, buf := newBufferLogger(LevelTrace, FormatJSON)
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Error("LogError(nil) should not write")
	}
}

func TestLogErrorDetails(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatJSON)
	logger.LogError(rgerror.New("unexpected token").
		WithCode(rgerror.CodeScriptSyntax).
		WithOperation("script.parse").
		WithDetail("line", 2))

	data := decodeLine(t, buf)
	if data["error_code"] != "SCRIPT_SYNTAX" {
		t.Errorf("error_code = %v", data["error_code"])
	}
	if data["error_line"] != float64(2) {
		t.Errorf("error_line = %v", data["error_line"])
	}
	if data["error_operation"] != "script.parse" {
		t.Errorf("error_operation = %v", data["error_operation"])
	}
}

func TestTextFormatterSortsFields(t *testing.T) {
	f := NewTextFormatter()
	f.DisableTimestamp = true
	entry := NewEntry(LevelInfo, "tick")
	entry.Fields = Fields{"z": 1, "a": 2, "m": 3}
	entry.Robot = "blue"

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "[INF] (robot=blue) tick [a=2 m=3 z=1]\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestConsoleFormatterColors(t *testing.T) {
	f := NewConsoleFormatter()
	entry := NewEntry(LevelError, "boom")

	out, _ := f.Format(entry)
	if !strings.HasPrefix(string(out), "\033[31m") {
		t.Errorf("expected red prefix, got %q", out)
	}

	f.DisableColors = true
	out, _ = f.Format(entry)
	if strings.Contains(string(out), "\033[") {
		t.Errorf("expected no escape codes, got %q", out)
	}
}

func TestLogfmtFormatter(t *testing.T) {
	f := NewLogfmtFormatter()
	entry := NewEntry(LevelWarn, "fuel low")
	entry.Fields = Fields{"fuel": 3, "robot_name": "red"}

	out, _ := f.Format(entry)
	s := string(out)
	for _, want := range []string{`level=warn`, `message="fuel low"`, `fuel=3`, `robot_name="red"`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in %q", want, s)
		}
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("WARNING"); err != nil || l != LevelWarn {
		t.Errorf("ParseLevel(WARNING) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if f, err := ParseFormat("logfmt"); err != nil || f != FormatLogfmt {
		t.Errorf("ParseFormat(logfmt) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConcurrentClonesShareOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(robot string) {
			defer wg.Done()
			l := logger.WithRobot(robot)
			for j := 0; j < 20; j++ {
				l.Info("step")
			}
		}(string(rune('a' + i)))
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 160 {
		t.Fatalf("got %d lines, want 160", len(lines))
	}
	for _, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Fatalf("interleaved output: %q", line)
		}
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	timer := logger.StartTimer("parse").WithField("bytes", 42)
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()
	if elapsed <= 0 {
		t.Error("expected positive duration")
	}
	if timer.IsRunning() {
		t.Error("timer should be stopped")
	}
	if timer.Stop() != 0 {
		t.Error("second Stop() should return 0")
	}

	data := decodeLine(t, buf)
	if data["message"] != "parse completed" {
		t.Errorf("message = %v", data["message"])
	}
	if _, ok := data["duration_ms"]; !ok {
		t.Error("missing duration_ms")
	}
	if data["bytes"] != float64(42) {
		t.Errorf("bytes = %v", data["bytes"])
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger.StartTimer("run").StopWithError(errors.New("halted"))

	data := decodeLine(t, buf)
	if data["level"] != "error" {
		t.Errorf("level = %v", data["level"])
	}
	if data["error"] != "halted" {
		t.Errorf("error = %v", data["error"])
	}
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	replacement, _ := newBufferLogger(LevelWarn, FormatText)
	SetDefault(replacement)
	if GetDefault() != replacement {
		t.Error("SetDefault() did not replace the default logger")
	}
	SetDefault(nil)
	if GetDefault() != replacement {
		t.Error("SetDefault(nil) must be ignored")
	}
}
