// File: tokenizer.go
// Title: Robot Script Tokenizer
// Description: Splits source text on runs of white space and around the
//              punctuation characters { } ( ) , ; which always form tokens of
//              their own. Tokens are plain strings annotated with their
//              position; classification is left to the grammar patterns.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-29 v0.1.0: Initial tokenizer
// - 2026-09-30 v0.1.0: Line and column tracking

package parser

import (
	"iter"
	"unicode/utf8"

	rgast "github.com/msto63/robogame/foundation/script/ast"
)

// Token is one lexical unit of the source.
type Token struct {
	Text   string
	Line   int // 1-based
	Column int // 1-based, in runes
	Offset int // 0-based byte offset
}

// Pos returns the token position as an AST position.
func (t Token) Pos() rgast.Position {
	return rgast.Position{Line: t.Line, Column: t.Column, Offset: t.Offset}
}

func (t Token) String() string {
	return t.Text
}

// Tokenizer produces tokens lazily. It can be restarted with Reset.
type Tokenizer struct {
	src    string
	offset int
	line   int
	column int
}

// NewTokenizer creates a tokenizer positioned at the start of src.
func NewTokenizer(src string) *Tokenizer {
	t := &Tokenizer{src: src}
	t.Reset()
	return t
}

// Reset rewinds the tokenizer to the start of its input.
func (t *Tokenizer) Reset() {
	t.offset = 0
	t.line = 1
	t.column = 1
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isPunct(b byte) bool {
	switch b {
	case '{', '}', '(', ')', ',', ';':
		return true
	}
	return false
}

func (t *Tokenizer) step() {
	r, size := utf8.DecodeRuneInString(t.src[t.offset:])
	t.offset += size
	if r == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

// Next returns the next token, or false once the input is exhausted.
func (t *Tokenizer) Next() (Token, bool) {
	for t.offset < len(t.src) && isSpace(t.src[t.offset]) {
		t.step()
	}
	if t.offset >= len(t.src) {
		return Token{}, false
	}

	tok := Token{Line: t.line, Column: t.column, Offset: t.offset}
	start := t.offset

	if isPunct(t.src[t.offset]) {
		t.step()
	} else {
		for t.offset < len(t.src) && !isSpace(t.src[t.offset]) && !isPunct(t.src[t.offset]) {
			t.step()
		}
	}

	tok.Text = t.src[start:t.offset]
	return tok, true
}

// All returns a sequence over every token of the input, starting from the
// beginning on each iteration.
func (t *Tokenizer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		cursor := NewTokenizer(t.src)
		for {
			tok, ok := cursor.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize returns all tokens of src.
func Tokenize(src string) []Token {
	var tokens []Token
	for tok := range NewTokenizer(src).All() {
		tokens = append(tokens, tok)
	}
	return tokens
}
