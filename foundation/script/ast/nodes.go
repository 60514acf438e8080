// File: nodes.go
// Title: Robot Script AST Node Definitions
// Description: Node types for statements, integer expressions and boolean
//              conditions, plus the keyword enumerations for sensors and
//              operators.
// Author: msto63
// Version: v0.1.1
// Created: 2026-09-29
// Modified: 2026-10-16
//
// Change History:
// - 2026-09-29 v0.1.0: Initial AST node definitions
// - 2026-10-16 v0.1.1: IsNil for typed nil nodes in hand-built trees

package ast

import (
	"fmt"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// String returns a parenthesized tree rendering of the node.
	String() string

	// Position returns the source position of the node
	Position() Position
}

// Position represents a position in the source code
type Position struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
	Offset int // Byte offset (0-based)
}

// IsValid reports whether the position was set by the parser.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Statement is a node that is executed for its effect.
type Statement interface {
	Node
	stmtNode()
}

// IntExpr is a node that evaluates to a 64-bit integer.
type IntExpr interface {
	Node
	intExprNode()
}

// BoolExpr is a node that evaluates to a truth value.
type BoolExpr interface {
	Node
	boolExprNode()
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Sequence is an ordered list of statements. A program is a Sequence; so is
// the body of every block.
type Sequence struct {
	Statements []Statement
	Pos        Position
}

// Move moves the robot forward Steps times.
type Move struct {
	Steps IntExpr
	Pos   Position
}

// Wait idles the robot for Ticks turns.
type Wait struct {
	Ticks IntExpr
	Pos   Position
}

// TurnLeft rotates the robot 90 degrees counter-clockwise.
type TurnLeft struct{ Pos Position }

// TurnRight rotates the robot 90 degrees clockwise.
type TurnRight struct{ Pos Position }

// TurnAround rotates the robot 180 degrees.
type TurnAround struct{ Pos Position }

// TakeFuel picks up a fuel barrel at the robot's location.
type TakeFuel struct{ Pos Position }

// ShieldOn raises the robot's shield.
type ShieldOn struct{ Pos Position }

// ShieldOff lowers the robot's shield.
type ShieldOff struct{ Pos Position }

// Loop executes Body forever.
type Loop struct {
	Body *Sequence
	Pos  Position
}

// While executes Body as long as Cond holds, testing before each pass.
type While struct {
	Cond BoolExpr
	Body *Sequence
	Pos  Position
}

// ElifClause is one `elif (cond) { ... }` arm of an If.
type ElifClause struct {
	Cond BoolExpr
	Body *Sequence
	Pos  Position
}

// If is a conditional with zero or more elif arms in source order and an
// optional else body (nil when absent).
type If struct {
	Cond  BoolExpr
	Then  *Sequence
	Elifs []ElifClause
	Else  *Sequence
	Pos   Position
}

// SetVariable assigns the value of Value to the variable Name.
type SetVariable struct {
	Name  string
	Value IntExpr
	Pos   Position
}

func (*Sequence) stmtNode()    {}
func (*Move) stmtNode()        {}
func (*Wait) stmtNode()        {}
func (*TurnLeft) stmtNode()    {}
func (*TurnRight) stmtNode()   {}
func (*TurnAround) stmtNode()  {}
func (*TakeFuel) stmtNode()    {}
func (*ShieldOn) stmtNode()    {}
func (*ShieldOff) stmtNode()   {}
func (*Loop) stmtNode()        {}
func (*While) stmtNode()       {}
func (*If) stmtNode()          {}
func (*SetVariable) stmtNode() {}

func (n *Sequence) Position() Position    { return n.Pos }
func (n *Move) Position() Position        { return n.Pos }
func (n *Wait) Position() Position        { return n.Pos }
func (n *TurnLeft) Position() Position    { return n.Pos }
func (n *TurnRight) Position() Position   { return n.Pos }
func (n *TurnAround) Position() Position  { return n.Pos }
func (n *TakeFuel) Position() Position    { return n.Pos }
func (n *ShieldOn) Position() Position    { return n.Pos }
func (n *ShieldOff) Position() Position   { return n.Pos }
func (n *Loop) Position() Position        { return n.Pos }
func (n *While) Position() Position       { return n.Pos }
func (n *If) Position() Position          { return n.Pos }
func (n *SetVariable) Position() Position { return n.Pos }

// ---------------------------------------------------------------------------
// Integer expressions
// ---------------------------------------------------------------------------

// Literal is an integer constant.
type Literal struct {
	Value int64
	Pos   Position
}

// VariableRef reads a variable. Name includes the leading '$'.
type VariableRef struct {
	Name string
	Pos  Position
}

// Sensor queries the robot. Index is only meaningful for BarrelLR and
// BarrelFB; nil selects the closest barrel.
type Sensor struct {
	Kind  SensorKind
	Index IntExpr
	Pos   Position
}

// BinaryOp applies an arithmetic operator. Left is evaluated before Right.
type BinaryOp struct {
	Op    ArithOp
	Left  IntExpr
	Right IntExpr
	Pos   Position
}

func (*Literal) intExprNode()     {}
func (*VariableRef) intExprNode() {}
func (*Sensor) intExprNode()      {}
func (*BinaryOp) intExprNode()    {}

func (n *Literal) Position() Position     { return n.Pos }
func (n *VariableRef) Position() Position { return n.Pos }
func (n *Sensor) Position() Position      { return n.Pos }
func (n *BinaryOp) Position() Position    { return n.Pos }

// ---------------------------------------------------------------------------
// Boolean expressions
// ---------------------------------------------------------------------------

// Relational compares two integer expressions.
type Relational struct {
	Op    RelOp
	Left  IntExpr
	Right IntExpr
	Pos   Position
}

// Logical combines two conditions. Both operands are always evaluated.
type Logical struct {
	Op    LogicOp
	Left  BoolExpr
	Right BoolExpr
	Pos   Position
}

// Not negates a condition.
type Not struct {
	Operand BoolExpr
	Pos     Position
}

func (*Relational) boolExprNode() {}
func (*Logical) boolExprNode()    {}
func (*Not) boolExprNode()        {}

func (n *Relational) Position() Position { return n.Pos }
func (n *Logical) Position() Position    { return n.Pos }
func (n *Not) Position() Position        { return n.Pos }

// ---------------------------------------------------------------------------
// Keyword enumerations
// ---------------------------------------------------------------------------

// SensorKind enumerates the robot sensors.
type SensorKind int

const (
	FuelLeft SensorKind = iota
	OppLR
	OppFB
	NumBarrels
	BarrelLR
	BarrelFB
	WallDist
)

var sensorKeywords = [...]string{
	FuelLeft:   "fuelLeft",
	OppLR:      "oppLR",
	OppFB:      "oppFB",
	NumBarrels: "numBarrels",
	BarrelLR:   "barrelLR",
	BarrelFB:   "barrelFB",
	WallDist:   "wallDist",
}

// String returns the source keyword of the sensor.
func (k SensorKind) String() string {
	if k < 0 || int(k) >= len(sensorKeywords) {
		return fmt.Sprintf("SensorKind(%d)", int(k))
	}
	return sensorKeywords[k]
}

// Indexable reports whether the sensor accepts an optional barrel index.
func (k SensorKind) Indexable() bool {
	return k == BarrelLR || k == BarrelFB
}

// LookupSensor maps a keyword to its sensor kind.
func LookupSensor(keyword string) (SensorKind, bool) {
	for i, kw := range sensorKeywords {
		if kw == keyword {
			return SensorKind(i), true
		}
	}
	return 0, false
}

// ArithOp enumerates the arithmetic operators.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
)

func (o ArithOp) String() string {
	switch o {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	default:
		return fmt.Sprintf("ArithOp(%d)", int(o))
	}
}

// LookupArithOp maps a keyword to its operator.
func LookupArithOp(keyword string) (ArithOp, bool) {
	switch keyword {
	case "add":
		return Add, true
	case "sub":
		return Sub, true
	case "mul":
		return Mul, true
	case "div":
		return Div, true
	}
	return 0, false
}

// RelOp enumerates the relational operators.
type RelOp int

const (
	Less RelOp = iota
	Greater
	Equal
)

func (o RelOp) String() string {
	switch o {
	case Less:
		return "lt"
	case Greater:
		return "gt"
	case Equal:
		return "eq"
	default:
		return fmt.Sprintf("RelOp(%d)", int(o))
	}
}

// LookupRelOp maps a keyword to its operator.
func LookupRelOp(keyword string) (RelOp, bool) {
	switch keyword {
	case "lt":
		return Less, true
	case "gt":
		return Greater, true
	case "eq":
		return Equal, true
	}
	return 0, false
}

// LogicOp enumerates the binary logical operators.
type LogicOp int

const (
	And LogicOp = iota
	Or
)

func (o LogicOp) String() string {
	switch o {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return fmt.Sprintf("LogicOp(%d)", int(o))
	}
}

// LookupLogicOp maps a keyword to its operator.
func LookupLogicOp(keyword string) (LogicOp, bool) {
	switch keyword {
	case "and":
		return And, true
	case "or":
		return Or, true
	}
	return 0, false
}

// IsNil reports whether n is nil or a typed nil pointer to a node.
func IsNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Sequence:
		return v == nil
	case *Move:
		return v == nil
	case *Wait:
		return v == nil
	case *TurnLeft:
		return v == nil
	case *TurnRight:
		return v == nil
	case *TurnAround:
		return v == nil
	case *TakeFuel:
		return v == nil
	case *ShieldOn:
		return v == nil
	case *ShieldOff:
		return v == nil
	case *Loop:
		return v == nil
	case *While:
		return v == nil
	case *If:
		return v == nil
	case *SetVariable:
		return v == nil
	case *Literal:
		return v == nil
	case *VariableRef:
		return v == nil
	case *Sensor:
		return v == nil
	case *BinaryOp:
		return v == nil
	case *Relational:
		return v == nil
	case *Logical:
		return v == nil
	case *Not:
		return v == nil
	}
	return false
}
