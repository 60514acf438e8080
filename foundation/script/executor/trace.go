// File: trace.go
// Title: Execution Trace Events
// Description: Events delivered to Options.Trace while a script runs.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-04
// Modified: 2026-10-04
//
// Change History:
// - 2026-10-04 v0.1.0: Initial implementation

package executor

import (
	"time"

	rgast "github.com/msto63/robogame/foundation/script/ast"
)

// EventKind identifies a trace event.
type EventKind string

const (
	EventRunStart  EventKind = "run-start"
	EventRunEnd    EventKind = "run-end"
	EventAction    EventKind = "action"
	EventAssign    EventKind = "assign"
	EventIteration EventKind = "iteration"
)

// Event describes one step of a run.
type Event struct {
	Kind EventKind
	// Op is the action keyword for EventAction, the variable name for
	// EventAssign and "loop" or "while" for EventIteration.
	Op        string
	Value     int64
	Iteration int64
	Pos       rgast.Position
	// Err is set on EventRunEnd and on a failed EventAction.
	Err  error
	Time time.Time
}
