// File: render.go
// Title: Tree Rendering and Source Formatting
// Description: String() renderings for every node and Format, which prints a
//              tree back as canonical script source that parses to an
//              equivalent tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-29 v0.1.0: Tree rendering
// - 2026-10-02 v0.1.0: Canonical source formatter

package ast

import (
	"strconv"
	"strings"
)

const nilNode = "<nil>"

func str(n Node) string {
	if n == nil {
		return nilNode
	}
	return n.String()
}

func (n *Sequence) String() string {
	if n == nil {
		return nilNode
	}
	parts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		parts[i] = str(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (n *Move) String() string       { return "(move " + str(n.Steps) + ")" }
func (n *Wait) String() string       { return "(wait " + str(n.Ticks) + ")" }
func (n *TurnLeft) String() string   { return "turnL" }
func (n *TurnRight) String() string  { return "turnR" }
func (n *TurnAround) String() string { return "turnAround" }
func (n *TakeFuel) String() string   { return "takeFuel" }
func (n *ShieldOn) String() string   { return "shieldOn" }
func (n *ShieldOff) String() string  { return "shieldOff" }
func (n *Loop) String() string       { return "(loop " + n.Body.String() + ")" }

func (n *While) String() string {
	return "(while " + str(n.Cond) + " " + n.Body.String() + ")"
}

func (n *If) String() string {
	var b strings.Builder
	b.WriteString("(if ")
	b.WriteString(str(n.Cond))
	b.WriteByte(' ')
	b.WriteString(n.Then.String())
	for _, e := range n.Elifs {
		b.WriteString(" (elif ")
		b.WriteString(str(e.Cond))
		b.WriteByte(' ')
		b.WriteString(e.Body.String())
		b.WriteByte(')')
	}
	if n.Else != nil {
		b.WriteString(" (else ")
		b.WriteString(n.Else.String())
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

func (n *SetVariable) String() string { return "(" + n.Name + " = " + str(n.Value) + ")" }

func (n *Literal) String() string     { return strconv.FormatInt(n.Value, 10) }
func (n *VariableRef) String() string { return n.Name }

func (n *Sensor) String() string {
	if n.Index == nil {
		return n.Kind.String()
	}
	return "(" + n.Kind.String() + " " + n.Index.String() + ")"
}

func (n *BinaryOp) String() string {
	return "(" + n.Op.String() + " " + str(n.Left) + " " + str(n.Right) + ")"
}

func (n *Relational) String() string {
	return "(" + n.Op.String() + " " + str(n.Left) + " " + str(n.Right) + ")"
}

func (n *Logical) String() string {
	return "(" + n.Op.String() + " " + str(n.Left) + " " + str(n.Right) + ")"
}

func (n *Not) String() string { return "(not " + str(n.Operand) + ")" }

// Format prints seq as script source, one statement per line, indented by
// two spaces per block level. Repeat counts equal to the literal 1 are
// omitted.
func Format(seq *Sequence) string {
	f := &formatter{}
	if seq != nil {
		for _, s := range seq.Statements {
			f.stmt(s)
		}
	}
	return f.b.String()
}

type formatter struct {
	b     strings.Builder
	depth int
}

func (f *formatter) line(s string) {
	f.b.WriteString(strings.Repeat("  ", f.depth))
	f.b.WriteString(s)
	f.b.WriteByte('\n')
}

func (f *formatter) body(seq *Sequence) {
	f.depth++
	if seq != nil {
		for _, s := range seq.Statements {
			f.stmt(s)
		}
	}
	f.depth--
}

func (f *formatter) block(head string, body *Sequence) {
	f.line(head + " {")
	f.body(body)
	f.line("}")
}

func (f *formatter) stmt(s Statement) {
	switch n := s.(type) {
	case *Sequence:
		for _, inner := range n.Statements {
			f.stmt(inner)
		}
	case *Move:
		f.line(repeatAction("move", n.Steps))
	case *Wait:
		f.line(repeatAction("wait", n.Ticks))
	case *TurnLeft, *TurnRight, *TurnAround, *TakeFuel, *ShieldOn, *ShieldOff:
		f.line(n.String() + ";")
	case *Loop:
		f.block("loop", n.Body)
	case *While:
		f.block("while ("+FormatBool(n.Cond)+")", n.Body)
	case *If:
		f.formatIf(n)
	case *SetVariable:
		f.line(n.Name + " = " + FormatInt(n.Value) + ";")
	default:
		f.line("/* " + str(s) + " */")
	}
}

func (f *formatter) formatIf(n *If) {
	f.line("if (" + FormatBool(n.Cond) + ") {")
	f.body(n.Then)
	for _, e := range n.Elifs {
		f.line("} elif (" + FormatBool(e.Cond) + ") {")
		f.body(e.Body)
	}
	if n.Else != nil {
		f.line("} else {")
		f.body(n.Else)
	}
	f.line("}")
}

func repeatAction(keyword string, count IntExpr) string {
	if lit, ok := count.(*Literal); ok && lit.Value == 1 {
		return keyword + ";"
	}
	return keyword + "(" + FormatInt(count) + ");"
}

// FormatInt prints an integer expression in source syntax.
func FormatInt(e IntExpr) string {
	switch n := e.(type) {
	case *Literal:
		return strconv.FormatInt(n.Value, 10)
	case *VariableRef:
		return n.Name
	case *Sensor:
		if n.Index == nil {
			return n.Kind.String()
		}
		return n.Kind.String() + "(" + FormatInt(n.Index) + ")"
	case *BinaryOp:
		return n.Op.String() + "(" + FormatInt(n.Left) + ", " + FormatInt(n.Right) + ")"
	default:
		return nilNode
	}
}

// FormatBool prints a condition in source syntax.
func FormatBool(e BoolExpr) string {
	switch n := e.(type) {
	case *Relational:
		return n.Op.String() + "(" + FormatInt(n.Left) + ", " + FormatInt(n.Right) + ")"
	case *Logical:
		return n.Op.String() + "(" + FormatBool(n.Left) + ", " + FormatBool(n.Right) + ")"
	case *Not:
		return "not(" + FormatBool(n.Operand) + ")"
	default:
		return nilNode
	}
}
