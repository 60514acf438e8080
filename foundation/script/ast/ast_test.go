// File: ast_test.go
// Title: AST Tests
// Description: Tree rendering, source formatting, walking, statistics and
//              structural validation on hand-built trees.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-29 v0.1.0: Rendering tests
// - 2026-10-02 v0.1.0: Formatter, walker and validator tests

package ast

import (
	"errors"
	"strings"
	"testing"
)

func sampleProgram() *Sequence {
	return &Sequence{Statements: []Statement{
		&SetVariable{Name: "$n", Value: &Literal{Value: 0}},
		&Loop{Body: &Sequence{Statements: []Statement{
			&If{
				Cond: &Relational{Op: Less, Left: &Sensor{Kind: FuelLeft}, Right: &Literal{Value: 10}},
				Then: &Sequence{Statements: []Statement{&TakeFuel{}}},
				Elifs: []ElifClause{{
					Cond: &Not{Operand: &Relational{Op: Equal, Left: &Sensor{Kind: BarrelLR, Index: &VariableRef{Name: "$n"}}, Right: &Literal{Value: 0}}},
					Body: &Sequence{Statements: []Statement{&TurnLeft{}}},
				}},
				Else: &Sequence{Statements: []Statement{
					&Move{Steps: &BinaryOp{Op: Add, Left: &VariableRef{Name: "$n"}, Right: &Literal{Value: 1}}},
				}},
			},
			&Wait{Ticks: &Literal{Value: 1}},
		}}},
	}}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"literal", &Literal{Value: -4}, "-4"},
		{"variable", &VariableRef{Name: "$x"}, "$x"},
		{"closest barrel", &Sensor{Kind: BarrelFB}, "barrelFB"},
		{"indexed barrel", &Sensor{Kind: BarrelLR, Index: &Literal{Value: 2}}, "(barrelLR 2)"},
		{"binary", &BinaryOp{Op: Div, Left: &Literal{Value: 8}, Right: &Sensor{Kind: WallDist}}, "(div 8 wallDist)"},
		{"logical", &Logical{Op: Or, Left: &Relational{Op: Greater, Left: &Literal{Value: 1}, Right: &Literal{Value: 0}}, Right: &Not{Operand: &Relational{Op: Equal, Left: &Literal{Value: 1}, Right: &Literal{Value: 1}}}}, "(or (gt 1 0) (not (eq 1 1)))"},
		{"move", &Move{Steps: &Literal{Value: 3}}, "(move 3)"},
		{"assignment", &SetVariable{Name: "$a", Value: &Sensor{Kind: OppLR}}, "($a = oppLR)"},
		{"missing operand", &Move{}, "(move <nil>)"},
		{
			"program",
			sampleProgram(),
			"[($n = 0), (loop [(if (lt fuelLeft 10) [takeFuel] (elif (not (eq (barrelLR $n) 0)) [turnL]) (else [(move (add $n 1))])), (wait 1)])]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	want := strings.Join([]string{
		"$n = 0;",
		"loop {",
		"  if (lt(fuelLeft, 10)) {",
		"    takeFuel;",
		"  } elif (not(eq(barrelLR($n), 0))) {",
		"    turnL;",
		"  } else {",
		"    move(add($n, 1));",
		"  }",
		"  wait;",
		"}",
		"",
	}, "\n")

	if got := Format(sampleProgram()); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
	if Format(nil) != "" {
		t.Error("Format(nil) should be empty")
	}
}

func TestInspect(t *testing.T) {
	var kinds []string
	Inspect(sampleProgram(), func(n Node) bool {
		switch n.(type) {
		case *Loop:
			kinds = append(kinds, "loop")
		case *If:
			kinds = append(kinds, "if")
			return false
		case *Wait:
			kinds = append(kinds, "wait")
		case *TakeFuel:
			kinds = append(kinds, "takeFuel")
		}
		return true
	})

	want := "loop,if,wait"
	if got := strings.Join(kinds, ","); got != want {
		t.Errorf("visited %q, want %q", got, want)
	}
}

func TestCollect(t *testing.T) {
	st := Collect(sampleProgram())

	if st.Statements != 7 {
		t.Errorf("Statements = %d, want 7", st.Statements)
	}
	if st.Loops != 1 || st.Conditionals != 1 || st.Assignments != 1 {
		t.Errorf("Loops/Conditionals/Assignments = %d/%d/%d", st.Loops, st.Conditionals, st.Assignments)
	}
	if st.Actions["takeFuel"] != 1 || st.Actions["turnL"] != 1 || st.Actions["move"] != 1 || st.Actions["wait"] != 1 {
		t.Errorf("Actions = %v", st.Actions)
	}
	if st.Sensors["fuelLeft"] != 1 || st.Sensors["barrelLR"] != 1 {
		t.Errorf("Sensors = %v", st.Sensors)
	}
	if len(st.Variables) != 1 || st.Variables[0] != "$n" {
		t.Errorf("Variables = %v", st.Variables)
	}
	if st.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", st.MaxDepth)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sampleProgram()); err != nil {
		t.Fatalf("sample program invalid: %v", err)
	}
	if err := Validate(&Sequence{}); err != nil {
		t.Errorf("empty program should be valid: %v", err)
	}

	tests := []struct {
		name    string
		node    Node
		wantMsg string
	}{
		{"nil tree", nil, "nil tree"},
		{"move without count", &Move{}, "step count is nil"},
		{"empty loop body", &Loop{Body: &Sequence{}}, "body is empty"},
		{"missing while body", &While{Cond: &Not{Operand: &Relational{Left: &Literal{}, Right: &Literal{}}}}, "body is missing"},
		{"if without condition", &If{Then: &Sequence{Statements: []Statement{&TurnLeft{}}}}, "condition is nil"},
		{"empty elif body", &If{
			Cond:  &Relational{Left: &Literal{}, Right: &Literal{}},
			Then:  &Sequence{Statements: []Statement{&TurnLeft{}}},
			Elifs: []ElifClause{{Cond: &Relational{Left: &Literal{}, Right: &Literal{}}, Body: &Sequence{}}},
		}, "elif 0 body is empty"},
		{"bad variable name", &SetVariable{Name: "x", Value: &Literal{}}, `invalid variable name "x"`},
		{"index on plain sensor", &Sensor{Kind: FuelLeft, Index: &Literal{}}, "takes no index"},
		{"unknown operator", &BinaryOp{Op: ArithOp(9), Left: &Literal{}, Right: &Literal{}}, "unknown operator 9"},
		{"missing logical operand", &Logical{Left: &Relational{Left: &Literal{}, Right: &Literal{}}}, "missing operand"},
		{"typed nil tree", (*Loop)(nil), "nil tree"},
		{"typed nil statement", &Sequence{Statements: []Statement{(*TurnLeft)(nil)}}, "statement 0 is nil"},
		{"typed nil count", &Move{Steps: (*Literal)(nil)}, "step count is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.node)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error %T does not contain a *ValidationError", err)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	err := Validate(&Sequence{Statements: []Statement{&Move{}, &Wait{}}})
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "step count") || !strings.Contains(msg, "tick count") {
		t.Errorf("expected both defects in %q", msg)
	}
}

func TestIsNil(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"nil interface", nil, true},
		{"typed nil statement", (*TurnLeft)(nil), true},
		{"typed nil sequence", (*Sequence)(nil), true},
		{"typed nil expression", (*Literal)(nil), true},
		{"typed nil condition", (*Not)(nil), true},
		{"statement", &TurnLeft{}, false},
		{"expression", &Sensor{Kind: WallDist}, false},
		{"condition", &Relational{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNil(tt.node); got != tt.want {
				t.Errorf("IsNil() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInspectSkipsTypedNil(t *testing.T) {
	seq := &Sequence{Statements: []Statement{&TurnLeft{}, (*TurnRight)(nil), &Move{Steps: (*Literal)(nil)}}}
	visited := 0
	Inspect(seq, func(n Node) bool {
		if IsNil(n) {
			t.Errorf("visited typed nil %T", n)
		}
		visited++
		return true
	})
	if visited != 3 {
		t.Errorf("visited %d nodes, want 3", visited)
	}
}

func TestLookups(t *testing.T) {
	for _, kw := range []string{"fuelLeft", "oppLR", "oppFB", "numBarrels", "barrelLR", "barrelFB", "wallDist"} {
		kind, ok := LookupSensor(kw)
		if !ok || kind.String() != kw {
			t.Errorf("LookupSensor(%q) = %v, %v", kw, kind, ok)
		}
	}
	if _, ok := LookupSensor("radar"); ok {
		t.Error("unknown sensor accepted")
	}
	if op, ok := LookupArithOp("mul"); !ok || op != Mul {
		t.Errorf("LookupArithOp(mul) = %v, %v", op, ok)
	}
	if op, ok := LookupRelOp("gt"); !ok || op != Greater {
		t.Errorf("LookupRelOp(gt) = %v, %v", op, ok)
	}
	if op, ok := LookupLogicOp("or"); !ok || op != Or {
		t.Errorf("LookupLogicOp(or) = %v, %v", op, ok)
	}
	if !BarrelFB.Indexable() || FuelLeft.Indexable() {
		t.Error("Indexable() wrong")
	}
}
