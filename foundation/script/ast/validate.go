// File: validate.go
// Title: Structural Validation
// Description: Checks trees that were assembled in code rather than by the
//              parser for the structural guarantees the parser provides.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-02
// Modified: 2026-10-02
//
// Change History:
// - 2026-10-02 v0.1.0: Initial implementation

package ast

import (
	"errors"
	"fmt"
	"regexp"
)

var variableName = regexp.MustCompile(`^\$[A-Za-z][A-Za-z0-9]*$`)

// ValidationError describes one structural defect.
type ValidationError struct {
	Pos     Position
	Node    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Node, e.Message)
}

// Validate reports every structural defect in the tree rooted at n: missing
// operands, empty or missing block bodies, out-of-range enumerations and
// invalid variable names. The result joins all *ValidationError values, or
// is nil for a well-formed tree.
func Validate(n Node) error {
	var errs []error
	report := func(n Node, format string, args ...interface{}) {
		errs = append(errs, &ValidationError{
			Pos:     n.Position(),
			Node:    fmt.Sprintf("%T", n),
			Message: fmt.Sprintf(format, args...),
		})
	}
	block := func(n Node, what string, body *Sequence) {
		if body == nil {
			report(n, "%s is missing", what)
		} else if len(body.Statements) == 0 {
			report(n, "%s is empty", what)
		}
	}

	if IsNil(n) {
		return &ValidationError{Node: nilNode, Message: "nil tree"}
	}

	Inspect(n, func(n Node) bool {
		switch v := n.(type) {
		case *Sequence:
			for i, s := range v.Statements {
				if IsNil(s) {
					report(v, "statement %d is nil", i)
				}
			}
		case *Move:
			if IsNil(v.Steps) {
				report(v, "step count is nil")
			}
		case *Wait:
			if IsNil(v.Ticks) {
				report(v, "tick count is nil")
			}
		case *Loop:
			block(v, "body", v.Body)
		case *While:
			if IsNil(v.Cond) {
				report(v, "condition is nil")
			}
			block(v, "body", v.Body)
		case *If:
			if IsNil(v.Cond) {
				report(v, "condition is nil")
			}
			block(v, "then body", v.Then)
			for i, e := range v.Elifs {
				if IsNil(e.Cond) {
					report(v, "elif %d condition is nil", i)
				}
				block(v, fmt.Sprintf("elif %d body", i), e.Body)
			}
			if v.Else != nil && len(v.Else.Statements) == 0 {
				report(v, "else body is empty")
			}
		case *SetVariable:
			if !variableName.MatchString(v.Name) {
				report(v, "invalid variable name %q", v.Name)
			}
			if IsNil(v.Value) {
				report(v, "value is nil")
			}
		case *VariableRef:
			if !variableName.MatchString(v.Name) {
				report(v, "invalid variable name %q", v.Name)
			}
		case *Sensor:
			if v.Kind < FuelLeft || v.Kind > WallDist {
				report(v, "unknown sensor %d", int(v.Kind))
			}
			if !IsNil(v.Index) && !v.Kind.Indexable() {
				report(v, "sensor %s takes no index", v.Kind)
			}
		case *BinaryOp:
			if v.Op < Add || v.Op > Div {
				report(v, "unknown operator %d", int(v.Op))
			}
			if IsNil(v.Left) || IsNil(v.Right) {
				report(v, "missing operand")
			}
		case *Relational:
			if v.Op < Less || v.Op > Equal {
				report(v, "unknown operator %d", int(v.Op))
			}
			if IsNil(v.Left) || IsNil(v.Right) {
				report(v, "missing operand")
			}
		case *Logical:
			if v.Op < And || v.Op > Or {
				report(v, "unknown operator %d", int(v.Op))
			}
			if IsNil(v.Left) || IsNil(v.Right) {
				report(v, "missing operand")
			}
		case *Not:
			if IsNil(v.Operand) {
				report(v, "missing operand")
			}
		}
		return true
	})

	return errors.Join(errs...)
}
