// File: matcher.go
// Title: Grammar Matcher
// Description: A cursor over the token stream that tests, consumes and
//              requires tokens by pattern, tracks open brackets and builds
//              every SyntaxError through a single failure path.
// Author: msto63
// Version: v0.1.1
// Created: 2026-09-29
// Modified: 2026-10-16
//
// Change History:
// - 2026-09-29 v0.1.0: Initial implementation
// - 2026-09-30 v0.1.0: Bracket stack
// - 2026-10-16 v0.1.1: Misplaced closing brackets report the bracket error

package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ContextTokens is the number of upcoming tokens attached to a SyntaxError.
const ContextTokens = 5

var oppositeBracket = map[string]string{
	")": "(",
	"}": "{",
}

// SyntaxError reports the first grammar violation in a script.
type SyntaxError struct {
	Message string
	// Context holds up to ContextTokens tokens starting at the offending one.
	Context []string
	Line    int
	Column  int
	Offset  int
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d, column %d: ", e.Line, e.Column)
	}
	b.WriteString(e.Message)
	b.WriteString("\n   @ ")
	if len(e.Context) == 0 {
		b.WriteString("end of input")
	} else {
		b.WriteString("..." + strings.Join(e.Context, " ") + "...")
	}
	return b.String()
}

type matcher struct {
	tokens   *Tokenizer
	ahead    []Token
	last     Token
	consumed int
	brackets []Token
}

func newMatcher(src string) *matcher {
	return &matcher{tokens: NewTokenizer(src)}
}

// peek returns the i-th unconsumed token.
func (m *matcher) peek(i int) (Token, bool) {
	for len(m.ahead) <= i {
		tok, ok := m.tokens.Next()
		if !ok {
			return Token{}, false
		}
		m.ahead = append(m.ahead, tok)
	}
	return m.ahead[i], true
}

func (m *matcher) atEnd() bool {
	_, ok := m.peek(0)
	return !ok
}

func (m *matcher) peekMatches(p *regexp.Regexp) bool {
	tok, ok := m.peek(0)
	return ok && p.MatchString(tok.Text)
}

// peekMatchesAt tests the i-th unconsumed token.
func (m *matcher) peekMatchesAt(i int, p *regexp.Regexp) bool {
	tok, ok := m.peek(i)
	return ok && p.MatchString(tok.Text)
}

// take consumes the next token and maintains the bracket stack.
func (m *matcher) take() (Token, error) {
	tok, ok := m.peek(0)
	if !ok {
		return Token{}, m.fail("unexpected end of input")
	}

	switch tok.Text {
	case "(", "{":
		m.brackets = append(m.brackets, tok)
	case ")", "}":
		if err := m.checkCloser(tok); err != nil {
			return Token{}, err
		}
		m.brackets = m.brackets[:len(m.brackets)-1]
	}

	m.ahead = m.ahead[1:]
	m.last = tok
	m.consumed++
	return tok, nil
}

// checkCloser fails unless tok closes the innermost open bracket.
func (m *matcher) checkCloser(tok Token) *SyntaxError {
	if len(m.brackets) == 0 {
		return m.fail("too many closing brackets")
	}
	top := m.brackets[len(m.brackets)-1]
	if top.Text != oppositeBracket[tok.Text] {
		return m.fail(fmt.Sprintf("incorrect closing bracket, %q at %d:%d is still open",
			top.Text, top.Line, top.Column))
	}
	return nil
}

// failAt fails with msg, unless the next token is a closing bracket that
// does not close the innermost open one. That case reports the bracket
// error instead, since it names the bracket that is actually wrong.
func (m *matcher) failAt(msg string) *SyntaxError {
	if tok, ok := m.peek(0); ok {
		if _, closer := oppositeBracket[tok.Text]; closer {
			if err := m.checkCloser(tok); err != nil {
				return err
			}
		}
	}
	return m.fail(msg)
}

// consumeIfMatches consumes the next token if it matches p.
func (m *matcher) consumeIfMatches(p *regexp.Regexp) (Token, bool, error) {
	if !m.peekMatches(p) {
		return Token{}, false, nil
	}
	tok, err := m.take()
	return tok, err == nil, err
}

// require consumes the next token, failing with msg unless it matches p.
func (m *matcher) require(p *regexp.Regexp, msg string) (Token, error) {
	if !m.peekMatches(p) {
		return Token{}, m.failAt(msg)
	}
	return m.take()
}

// requireInt consumes the next token as a 64-bit integer. The token must
// match p and fit the integer range.
func (m *matcher) requireInt(p *regexp.Regexp, msg string) (int64, Token, error) {
	if !m.peekMatches(p) {
		return 0, Token{}, m.fail(msg)
	}
	tok, _ := m.peek(0)
	value, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return 0, Token{}, m.fail(fmt.Sprintf("integer literal %s out of range", tok.Text))
	}
	if _, err := m.take(); err != nil {
		return 0, Token{}, err
	}
	return value, tok, nil
}

// fail builds a SyntaxError positioned at the next unconsumed token, or just
// past the last consumed one at the end of input.
func (m *matcher) fail(msg string) *SyntaxError {
	e := &SyntaxError{Message: msg}
	for i := 0; i < ContextTokens; i++ {
		tok, ok := m.peek(i)
		if !ok {
			break
		}
		if i == 0 {
			e.Line, e.Column, e.Offset = tok.Line, tok.Column, tok.Offset
		}
		e.Context = append(e.Context, tok.Text)
	}
	if len(e.Context) == 0 && m.consumed > 0 {
		e.Line = m.last.Line
		e.Column = m.last.Column + len([]rune(m.last.Text))
		e.Offset = m.last.Offset + len(m.last.Text)
	}
	return e
}

// closeAll verifies that every opened bracket was closed. Every block and
// argument list requires its own closer, so a well-formed parse never
// leaves one open; this is the final check of that invariant.
func (m *matcher) closeAll() error {
	if len(m.brackets) == 0 {
		return nil
	}
	top := m.brackets[len(m.brackets)-1]
	return m.fail(fmt.Sprintf("unbalanced brackets, %q at %d:%d is never closed", top.Text, top.Line, top.Column))
}
