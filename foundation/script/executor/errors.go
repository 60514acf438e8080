// File: errors.go
// Title: Runtime Errors
// Description: Fatal evaluation errors and their classification.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-30
// Modified: 2026-10-04
//
// Change History:
// - 2026-09-30 v0.1.0: Initial implementation
// - 2026-10-04 v0.1.0: Iteration limit

package executor

import (
	"context"
	"errors"
	"fmt"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rgast "github.com/msto63/robogame/foundation/script/ast"
)

var (
	// ErrDivisionByZero is raised by div with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrMalformedAST is raised for nil operands and unknown node kinds.
	ErrMalformedAST = errors.New("malformed syntax tree")
	// ErrIterationLimit is raised when Options.MaxIterations is exceeded.
	ErrIterationLimit = errors.New("iteration limit exceeded")
)

// RuntimeError stops a script run. Err is one of the sentinels above, a
// context error, or an error returned by the Robot.
type RuntimeError struct {
	Pos rgast.Position
	// Op names what was being evaluated, e.g. "div" or "move".
	Op  string
	Err error
}

func (e *RuntimeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("runtime error at %s in %s: %v", e.Pos, e.Op, e.Err)
	}
	return fmt.Sprintf("runtime error in %s: %v", e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Code classifies the error for reporting.
func (e *RuntimeError) Code() rgerror.Code {
	switch {
	case errors.Is(e.Err, ErrDivisionByZero):
		return rgerror.CodeDivisionByZero
	case errors.Is(e.Err, ErrMalformedAST):
		return rgerror.CodeMalformedAST
	case errors.Is(e.Err, ErrIterationLimit):
		return rgerror.CodeIterationLimit
	case errors.Is(e.Err, context.Canceled):
		return rgerror.CodeCanceled
	case errors.Is(e.Err, context.DeadlineExceeded):
		return rgerror.CodeTimeout
	default:
		if code := rgerror.GetCode(e.Err); code != rgerror.CodeUnknown {
			return code
		}
		return rgerror.CodeScriptRuntime
	}
}

func malformed(n rgast.Node, what string) error {
	var pos rgast.Position
	if n != nil {
		pos = n.Position()
	}
	return &RuntimeError{Pos: pos, Op: what, Err: ErrMalformedAST}
}
