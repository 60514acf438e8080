// File: tokenizer_test.go
// Title: Tokenizer Tests
// Description: Token splitting, positions and restartability.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-29 v0.1.0: Initial tests
// - 2026-09-30 v0.1.0: Position tests

package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func texts(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Text)
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"only whitespace", " \t\r\n ", []string{}},
		{"simple action", "move;", []string{"move", ";"}},
		{"action with argument", "move(3);", []string{"move", "(", "3", ")", ";"}},
		{
			name:  "nested condition without spaces",
			input: "if(lt(fuelLeft,10)){turnL;}",
			want:  []string{"if", "(", "lt", "(", "fuelLeft", ",", "10", ")", ")", "{", "turnL", ";", "}"},
		},
		{
			name:  "whitespace runs",
			input: "  wait  (\n\t2 )\n;",
			want:  []string{"wait", "(", "2", ")", ";"},
		},
		{"assignment needs spaces", "$x=5;", []string{"$x=5", ";"}},
		{"negative literal", "move(-5);", []string{"move", "(", "-5", ")", ";"}},
		{"adjacent punctuation", "(){},;", []string{"(", ")", "{", "}", ",", ";"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Tokenize(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenPositions(t *testing.T) {
	tokens := Tokenize("loop {\n  move(2);\n}")

	want := []struct {
		text         string
		line, column int
	}{
		{"loop", 1, 1},
		{"{", 1, 6},
		{"move", 2, 3},
		{"(", 2, 7},
		{"2", 2, 8},
		{")", 2, 9},
		{";", 2, 10},
		{"}", 3, 1},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Text != w.text || tok.Line != w.line || tok.Column != w.column {
			t.Errorf("token %d = %q@%d:%d, want %q@%d:%d",
				i, tok.Text, tok.Line, tok.Column, w.text, w.line, w.column)
		}
	}
	if tokens[2].Offset != 9 {
		t.Errorf("offset of move = %d, want 9", tokens[2].Offset)
	}
}

func TestTokenizerRestart(t *testing.T) {
	tz := NewTokenizer("turnL; turnR;")

	first, _ := tz.Next()
	if first.Text != "turnL" {
		t.Fatalf("first token = %q", first.Text)
	}

	var all []string
	for tok := range tz.All() {
		all = append(all, tok.Text)
	}
	if diff := cmp.Diff([]string{"turnL", ";", "turnR", ";"}, all); diff != "" {
		t.Errorf("All() should start from the beginning (-want +got):\n%s", diff)
	}

	tz.Reset()
	again, _ := tz.Next()
	if again.Text != "turnL" {
		t.Errorf("after Reset() first token = %q", again.Text)
	}
}

func TestTokenizerEarlyStop(t *testing.T) {
	count := 0
	for range NewTokenizer("a b c d").All() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
