// File: parser_test.go
// Title: Parser Unit Tests
// Description: Tree shapes for every grammar rule, syntax error messages and
//              context, formatter round trips and the input size limit.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-29 v0.1.0: Initial parser test suite
// - 2026-10-02 v0.1.0: Round trip tests

package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rglog "github.com/msto63/robogame/foundation/core/log"
	rgast "github.com/msto63/robogame/foundation/script/ast"
)

var ignorePositions = cmpopts.IgnoreTypes(rgast.Position{})

func lit(v int64) *rgast.Literal               { return &rgast.Literal{Value: v} }
func ref(name string) *rgast.VariableRef       { return &rgast.VariableRef{Name: name} }
func seq(s ...rgast.Statement) *rgast.Sequence { return &rgast.Sequence{Statements: s} }

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *rgast.Sequence
	}{
		{
			name:  "empty program",
			input: "",
			want:  seq(),
		},
		{
			name:  "simple actions",
			input: "turnL; turnR; turnAround; takeFuel; shieldOn; shieldOff;",
			want: seq(
				&rgast.TurnLeft{}, &rgast.TurnRight{}, &rgast.TurnAround{},
				&rgast.TakeFuel{}, &rgast.ShieldOn{}, &rgast.ShieldOff{},
			),
		},
		{
			name:  "move and wait default to one",
			input: "move; wait;",
			want:  seq(&rgast.Move{Steps: lit(1)}, &rgast.Wait{Ticks: lit(1)}),
		},
		{
			name:  "move with expression",
			input: "move(add(2, $n));",
			want: seq(&rgast.Move{Steps: &rgast.BinaryOp{
				Op: rgast.Add, Left: lit(2), Right: ref("$n"),
			}}),
		},
		{
			name:  "negative and zero literals",
			input: "wait(-3); wait(0);",
			want:  seq(&rgast.Wait{Ticks: lit(-3)}, &rgast.Wait{Ticks: lit(0)}),
		},
		{
			name:  "loop",
			input: "loop { move; turnL; }",
			want: seq(&rgast.Loop{Body: seq(
				&rgast.Move{Steps: lit(1)}, &rgast.TurnLeft{},
			)}),
		},
		{
			name:  "while with sensor condition",
			input: "while (gt(fuelLeft, 10)) { move; }",
			want: seq(&rgast.While{
				Cond: &rgast.Relational{Op: rgast.Greater, Left: &rgast.Sensor{Kind: rgast.FuelLeft}, Right: lit(10)},
				Body: seq(&rgast.Move{Steps: lit(1)}),
			}),
		},
		{
			name: "if elif else keeps source order",
			input: `if (lt(wallDist, 1)) { turnL; }
			        elif (eq(oppFB, 0)) { shieldOn; }
			        elif (gt(numBarrels, 0)) { takeFuel; }
			        else { move; }`,
			want: seq(&rgast.If{
				Cond: &rgast.Relational{Op: rgast.Less, Left: &rgast.Sensor{Kind: rgast.WallDist}, Right: lit(1)},
				Then: seq(&rgast.TurnLeft{}),
				Elifs: []rgast.ElifClause{
					{
						Cond: &rgast.Relational{Op: rgast.Equal, Left: &rgast.Sensor{Kind: rgast.OppFB}, Right: lit(0)},
						Body: seq(&rgast.ShieldOn{}),
					},
					{
						Cond: &rgast.Relational{Op: rgast.Greater, Left: &rgast.Sensor{Kind: rgast.NumBarrels}, Right: lit(0)},
						Body: seq(&rgast.TakeFuel{}),
					},
				},
				Else: seq(&rgast.Move{Steps: lit(1)}),
			}),
		},
		{
			name:  "if without else",
			input: "if (eq(1, 1)) { wait; }",
			want: seq(&rgast.If{
				Cond: &rgast.Relational{Op: rgast.Equal, Left: lit(1), Right: lit(1)},
				Then: seq(&rgast.Wait{Ticks: lit(1)}),
			}),
		},
		{
			name:  "logical operators nest",
			input: "if (and(not(lt($a, 0)), or(eq($b, 1), gt($c, 2)))) { move; }",
			want: seq(&rgast.If{
				Cond: &rgast.Logical{
					Op: rgast.And,
					Left: &rgast.Not{Operand: &rgast.Relational{Op: rgast.Less, Left: ref("$a"), Right: lit(0)}},
					Right: &rgast.Logical{
						Op:    rgast.Or,
						Left:  &rgast.Relational{Op: rgast.Equal, Left: ref("$b"), Right: lit(1)},
						Right: &rgast.Relational{Op: rgast.Greater, Left: ref("$c"), Right: lit(2)},
					},
				},
				Then: seq(&rgast.Move{Steps: lit(1)}),
			}),
		},
		{
			name:  "barrel sensors with and without index",
			input: "$x = barrelLR; $y = barrelFB(sub($i, 1));",
			want: seq(
				&rgast.SetVariable{Name: "$x", Value: &rgast.Sensor{Kind: rgast.BarrelLR}},
				&rgast.SetVariable{Name: "$y", Value: &rgast.Sensor{
					Kind:  rgast.BarrelFB,
					Index: &rgast.BinaryOp{Op: rgast.Sub, Left: ref("$i"), Right: lit(1)},
				}},
			),
		},
		{
			name:  "non indexable sensor followed by paren is not an index",
			input: "move(oppLR);",
			want:  seq(&rgast.Move{Steps: &rgast.Sensor{Kind: rgast.OppLR}}),
		},
		{
			name:  "arithmetic nesting",
			input: "$v = div(mul(3, $w), sub(0, 2));",
			want: seq(&rgast.SetVariable{Name: "$v", Value: &rgast.BinaryOp{
				Op:    rgast.Div,
				Left:  &rgast.BinaryOp{Op: rgast.Mul, Left: lit(3), Right: ref("$w")},
				Right: &rgast.BinaryOp{Op: rgast.Sub, Left: lit(0), Right: lit(2)},
			}}),
		},
		{
			name:  "nested blocks",
			input: "loop { while (lt($i, 3)) { $i = add($i, 1); } }",
			want: seq(&rgast.Loop{Body: seq(&rgast.While{
				Cond: &rgast.Relational{Op: rgast.Less, Left: ref("$i"), Right: lit(3)},
				Body: seq(&rgast.SetVariable{Name: "$i", Value: &rgast.BinaryOp{
					Op: rgast.Add, Left: ref("$i"), Right: lit(1),
				}}),
			})}),
		},
	}

	p := New(Options{Logger: rglog.Discard()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, ignorePositions); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMsg     string
		wantContext []string
		wantLine    int
		wantColumn  int
	}{
		{
			name:        "unknown statement",
			input:       "jump;",
			wantMsg:     "expected statement",
			wantContext: []string{"jump", ";"},
			wantLine:    1,
			wantColumn:  1,
		},
		{
			name:       "missing semicolon at end of input",
			input:      "move",
			wantMsg:    "expected ';' after move",
			wantLine:   1,
			wantColumn: 5,
		},
		{
			name:        "missing semicolon before next statement",
			input:       "move(3) turnL;",
			wantMsg:     "expected ';' after move",
			wantContext: []string{"turnL", ";"},
			wantLine:    1,
			wantColumn:  9,
		},
		{
			name:        "empty loop block",
			input:       "loop { }",
			wantMsg:     "empty loop block",
			wantContext: []string{"}"},
			wantLine:    1,
			wantColumn:  8,
		},
		{
			name:        "empty else block",
			input:       "if (lt(1, 2)) { move; } else { }",
			wantMsg:     "empty else block",
			wantContext: []string{"}"},
		},
		{
			name:        "assignment inside expression",
			input:       "$x = add($y = 3, 4);",
			wantMsg:     "cannot assign in the middle of an expression",
			wantContext: []string{"$y", "=", "3", ",", "4"},
			wantLine:    1,
			wantColumn:  10,
		},
		{
			name:        "literal out of range",
			input:       "move(99999999999999999999);",
			wantMsg:     "out of range",
			wantContext: []string{"99999999999999999999", ")", ";"},
		},
		{
			name:        "leading zero is not a literal",
			input:       "move(007);",
			wantMsg:     "expected expression",
			wantContext: []string{"007", ")", ";"},
		},
		{
			name:        "missing closing paren of guard",
			input:       "while (lt(1, 2) { move; }",
			wantMsg:     "expected ')' after while condition",
			wantContext: []string{"{", "move", ";", "}"},
		},
		{
			name:        "unknown condition",
			input:       "if (foo(1, 2)) { move; }",
			wantMsg:     "expected condition",
			wantContext: []string{"foo", "(", "1", ",", "2"},
		},
		{
			name:        "stray closing brace",
			input:       "}",
			wantMsg:     "too many closing brackets",
			wantContext: []string{"}"},
			wantLine:    1,
			wantColumn:  1,
		},
		{
			name:        "closing paren after statement",
			input:       "move; )",
			wantMsg:     "too many closing brackets",
			wantContext: []string{")"},
		},
		{
			name:        "crossed brackets in move count",
			input:       "move(1};",
			wantMsg:     `incorrect closing bracket, "(" at 1:5 is still open`,
			wantContext: []string{"}", ";"},
			wantLine:    1,
			wantColumn:  7,
		},
		{
			name:        "crossed brackets in condition",
			input:       "if (lt(1, 2}) { move; }",
			wantMsg:     `incorrect closing bracket, "(" at 1:7 is still open`,
			wantContext: []string{"}", ")", "{", "move", ";"},
		},
		{
			name:        "paren closing a block",
			input:       "loop { move; )",
			wantMsg:     `incorrect closing bracket, "{" at 1:6 is still open`,
			wantContext: []string{")"},
		},
		{
			name:        "empty count",
			input:       "move();",
			wantMsg:     "expected expression",
			wantContext: []string{")", ";"},
		},
		{
			name:    "unterminated block",
			input:   "loop { move; ",
			wantMsg: "expected '}' to close loop block",
		},
		{
			name:        "assignment without equals",
			input:       "$x 5;",
			wantMsg:     "expected '=' after $x",
			wantContext: []string{"5", ";"},
		},
		{
			name:        "condition in expression position",
			input:       "move(lt(1, 2));",
			wantMsg:     "expected expression",
			wantContext: []string{"lt", "(", "1", ",", "2"},
		},
		{
			name:        "missing comma",
			input:       "$x = add(1 2);",
			wantMsg:     "expected ',' in add",
			wantContext: []string{"2", ")", ";"},
		},
		{
			name:        "elif without if",
			input:       "elif (eq(1, 1)) { move; }",
			wantMsg:     "expected statement",
			wantContext: []string{"elif", "(", "eq", "(", "1"},
		},
		{
			name:        "error on a later line",
			input:       "move;\nturnL;\n  fly;",
			wantMsg:     "expected statement",
			wantContext: []string{"fly", ";"},
			wantLine:    3,
			wantColumn:  3,
		},
	}

	p := New(Options{Logger: rglog.Discard()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := p.Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error, got %v", prog)
			}
			if prog != nil {
				t.Error("no partial tree may be returned")
			}

			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("error %T is not a *SyntaxError", err)
			}
			if !strings.Contains(synErr.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", synErr.Message, tt.wantMsg)
			}
			if tt.wantContext != nil {
				if diff := cmp.Diff(tt.wantContext, synErr.Context); diff != "" {
					t.Errorf("Context mismatch (-want +got):\n%s", diff)
				}
			}
			if len(synErr.Context) > ContextTokens {
				t.Errorf("Context has %d tokens, max %d", len(synErr.Context), ContextTokens)
			}
			if tt.wantLine != 0 && (synErr.Line != tt.wantLine || synErr.Column != tt.wantColumn) {
				t.Errorf("position = %d:%d, want %d:%d", synErr.Line, synErr.Column, tt.wantLine, tt.wantColumn)
			}
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	err := &SyntaxError{
		Message: "expected statement",
		Context: []string{"jump", ";"},
		Line:    2,
		Column:  4,
	}
	want := "line 2, column 4: expected statement\n   @ ...jump ;..."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	atEnd := &SyntaxError{Message: "expected ';' after move"}
	if !strings.HasSuffix(atEnd.Error(), "@ end of input") {
		t.Errorf("Error() = %q", atEnd.Error())
	}
}

func TestParser_Positions(t *testing.T) {
	prog, err := Parse("turnL;\nif (eq($a, 2)) {\n  move(3);\n}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	node := prog.Statements[1].(*rgast.If)
	if node.Pos.Line != 2 || node.Pos.Column != 1 {
		t.Errorf("if position = %v, want 2:1", node.Pos)
	}
	move := node.Then.Statements[0].(*rgast.Move)
	if move.Pos.Line != 3 || move.Pos.Column != 3 {
		t.Errorf("move position = %v, want 3:3", move.Pos)
	}
	if steps := move.Steps.(*rgast.Literal); steps.Pos.Column != 8 {
		t.Errorf("literal column = %d, want 8", steps.Pos.Column)
	}
	cond := node.Cond.(*rgast.Relational)
	if ref := cond.Left.(*rgast.VariableRef); ref.Pos.Column != 8 {
		t.Errorf("variable column = %d, want 8", ref.Pos.Column)
	}
}

func TestParser_FormatRoundTrip(t *testing.T) {
	sources := []string{
		"move; turnL; wait(5);",
		"loop { if (lt(fuelLeft, 20)) { takeFuel; } elif (gt(oppFB, 0)) { shieldOn; move(2); } else { turnR; } }",
		"$n = 0; while (lt($n, 10)) { $n = add($n, 1); move(barrelFB($n)); }",
		"if (not(or(eq(barrelLR, 0), and(gt(wallDist, 2), lt(oppLR, -1))))) { turnAround; shieldOff; }",
	}

	for _, src := range sources {
		first, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", src, err)
		}
		formatted := rgast.Format(first)
		second, err := Parse(formatted)
		if err != nil {
			t.Fatalf("Parse(Format()) error = %v\n%s", err, formatted)
		}
		if diff := cmp.Diff(first, second, ignorePositions); diff != "" {
			t.Errorf("round trip mismatch for %q (-first +second):\n%s", src, diff)
		}
	}
}

func TestParser_MaxInputLength(t *testing.T) {
	p := New(Options{Logger: rglog.Discard(), MaxInputLength: 10})

	_, err := p.Parse("move; move; move;")
	if err == nil {
		t.Fatal("expected size error")
	}
	if !rgerror.HasCode(err, rgerror.CodeProgramTooLarge) {
		t.Errorf("error code = %v, want %v", rgerror.GetCode(err), rgerror.CodeProgramTooLarge)
	}

	if _, err := p.Parse("move;"); err != nil {
		t.Errorf("short program rejected: %v", err)
	}
}

func TestParser_BracketTracking(t *testing.T) {
	m := newMatcher("( }")
	if _, err := m.take(); err != nil {
		t.Fatalf("take '(' error = %v", err)
	}
	_, err := m.take()
	var synErr *SyntaxError
	if !errors.As(err, &synErr) || !strings.Contains(synErr.Message, "incorrect closing bracket") {
		t.Errorf("expected incorrect closing bracket, got %v", err)
	}

	m = newMatcher(")")
	if _, err := m.take(); err == nil || !strings.Contains(err.Error(), "too many closing brackets") {
		t.Errorf("expected too many closing brackets, got %v", err)
	}

	m = newMatcher("{")
	_, _ = m.take()
	if err := m.closeAll(); err == nil || !strings.Contains(err.Error(), "unbalanced brackets") {
		t.Errorf("expected unbalanced brackets, got %v", err)
	}
}
