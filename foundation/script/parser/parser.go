// File: parser.go
// Title: Robot Script Recursive Descent Parser
// Description: Converts the token stream into an ast.Sequence using one
//              procedure per grammar rule. The first violation aborts the
//              parse; no partial tree is returned.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-29 v0.1.0: Initial parser implementation
// - 2026-09-30 v0.1.0: Input size limit and logging

package parser

import (
	"regexp"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rglog "github.com/msto63/robogame/foundation/core/log"
	rgast "github.com/msto63/robogame/foundation/script/ast"
)

// DefaultMaxInputLength bounds the size of a script in bytes.
const DefaultMaxInputLength = 64 * 1024

var (
	actionPattern = regexp.MustCompile(`^(?:move|turnL|turnR|turnAround|takeFuel|wait|shieldOn|shieldOff)$`)
	relopPattern  = regexp.MustCompile(`^(?:lt|gt|eq)$`)
	logicPattern  = regexp.MustCompile(`^(?:and|or)$`)
	notPattern    = regexp.MustCompile(`^not$`)
	arithPattern  = regexp.MustCompile(`^(?:add|sub|mul|div)$`)
	sensorPattern = regexp.MustCompile(`^(?:fuelLeft|oppLR|oppFB|numBarrels|barrelLR|barrelFB|wallDist)$`)
	numPattern    = regexp.MustCompile(`^(?:-?[1-9][0-9]*|0)$`)
	varPattern    = regexp.MustCompile(`^\$[A-Za-z][A-Za-z0-9]*$`)

	loopPattern  = regexp.MustCompile(`^loop$`)
	ifPattern    = regexp.MustCompile(`^if$`)
	elifPattern  = regexp.MustCompile(`^elif$`)
	elsePattern  = regexp.MustCompile(`^else$`)
	whilePattern = regexp.MustCompile(`^while$`)

	openParen  = regexp.MustCompile(`^\($`)
	closeParen = regexp.MustCompile(`^\)$`)
	openBrace  = regexp.MustCompile(`^\{$`)
	closeBrace = regexp.MustCompile(`^\}$`)
	comma      = regexp.MustCompile(`^,$`)
	semicolon  = regexp.MustCompile(`^;$`)
	assignOp   = regexp.MustCompile(`^=$`)
)

// Parser parses robot scripts. A Parser holds no per-parse state and may be
// shared between goroutines.
type Parser struct {
	logger  *rglog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger         *rglog.Logger
	MaxInputLength int
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = rglog.GetDefault()
	}
	if opts.MaxInputLength <= 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	return &Parser{
		logger:  opts.Logger.WithField("component", "script-parser"),
		options: opts,
	}
}

// Parse parses src with default options.
func Parse(src string) (*rgast.Sequence, error) {
	return New(Options{Logger: rglog.Discard()}).Parse(src)
}

// Parse parses a complete program. Errors are *SyntaxError, or an
// *rgerror.Error with CodeProgramTooLarge when src exceeds the size limit.
func (p *Parser) Parse(src string) (*rgast.Sequence, error) {
	if len(src) > p.options.MaxInputLength {
		return nil, rgerror.Newf("program exceeds maximum length: %d > %d", len(src), p.options.MaxInputLength).
			WithCode(rgerror.CodeProgramTooLarge).
			WithOperation("parser.Parse")
	}

	p.logger.Debug("parsing script", rglog.Fields{"length": len(src)})

	s := &state{m: newMatcher(src)}
	prog, err := s.parseProgram()
	if err != nil {
		p.logger.Debug("script parsing failed", rglog.Fields{"error": err.Error()})
		return nil, err
	}

	p.logger.Debug("script parsed", rglog.Fields{
		"statements": len(prog.Statements),
		"tokens":     s.m.consumed,
	})
	return prog, nil
}

// state is the cursor of a single parse.
type state struct {
	m *matcher
}

func (s *state) parseProgram() (*rgast.Sequence, error) {
	prog := &rgast.Sequence{Pos: rgast.Position{Line: 1, Column: 1}}
	for !s.m.atEnd() {
		stmt, err := s.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	if err := s.m.closeAll(); err != nil {
		return nil, err
	}
	return prog, nil
}

func (s *state) parseStatement() (rgast.Statement, error) {
	switch {
	case s.m.peekMatches(actionPattern):
		return s.parseAction()
	case s.m.peekMatches(loopPattern):
		return s.parseLoop()
	case s.m.peekMatches(ifPattern):
		return s.parseIf()
	case s.m.peekMatches(whilePattern):
		return s.parseWhile()
	case s.m.peekMatches(varPattern):
		return s.parseAssign()
	default:
		return nil, s.m.failAt("expected statement")
	}
}

func (s *state) parseAction() (rgast.Statement, error) {
	tok, err := s.m.take()
	if err != nil {
		return nil, err
	}
	pos := tok.Pos()

	var stmt rgast.Statement
	switch tok.Text {
	case "move":
		steps, err := s.parseRepeat(tok)
		if err != nil {
			return nil, err
		}
		stmt = &rgast.Move{Steps: steps, Pos: pos}
	case "wait":
		ticks, err := s.parseRepeat(tok)
		if err != nil {
			return nil, err
		}
		stmt = &rgast.Wait{Ticks: ticks, Pos: pos}
	case "turnL":
		stmt = &rgast.TurnLeft{Pos: pos}
	case "turnR":
		stmt = &rgast.TurnRight{Pos: pos}
	case "turnAround":
		stmt = &rgast.TurnAround{Pos: pos}
	case "takeFuel":
		stmt = &rgast.TakeFuel{Pos: pos}
	case "shieldOn":
		stmt = &rgast.ShieldOn{Pos: pos}
	case "shieldOff":
		stmt = &rgast.ShieldOff{Pos: pos}
	}

	if _, err := s.m.require(semicolon, "expected ';' after "+tok.Text); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseRepeat parses the optional "( EXPR )" of move and wait. The default
// count is the literal 1 positioned at the action keyword.
func (s *state) parseRepeat(action Token) (rgast.IntExpr, error) {
	_, open, err := s.m.consumeIfMatches(openParen)
	if err != nil {
		return nil, err
	}
	if !open {
		return &rgast.Literal{Value: 1, Pos: action.Pos()}, nil
	}
	count, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := s.m.require(closeParen, "expected ')' after "+action.Text+" count"); err != nil {
		return nil, err
	}
	return count, nil
}

func (s *state) parseLoop() (rgast.Statement, error) {
	tok, err := s.m.take()
	if err != nil {
		return nil, err
	}
	body, err := s.parseBlock("loop")
	if err != nil {
		return nil, err
	}
	return &rgast.Loop{Body: body, Pos: tok.Pos()}, nil
}

func (s *state) parseWhile() (rgast.Statement, error) {
	tok, err := s.m.take()
	if err != nil {
		return nil, err
	}
	cond, err := s.parseGuard("while")
	if err != nil {
		return nil, err
	}
	body, err := s.parseBlock("while")
	if err != nil {
		return nil, err
	}
	return &rgast.While{Cond: cond, Body: body, Pos: tok.Pos()}, nil
}

func (s *state) parseIf() (rgast.Statement, error) {
	tok, err := s.m.take()
	if err != nil {
		return nil, err
	}
	node := &rgast.If{Pos: tok.Pos()}

	if node.Cond, err = s.parseGuard("if"); err != nil {
		return nil, err
	}
	if node.Then, err = s.parseBlock("if"); err != nil {
		return nil, err
	}

	for s.m.peekMatches(elifPattern) {
		elif, err := s.m.take()
		if err != nil {
			return nil, err
		}
		clause := rgast.ElifClause{Pos: elif.Pos()}
		if clause.Cond, err = s.parseGuard("elif"); err != nil {
			return nil, err
		}
		if clause.Body, err = s.parseBlock("elif"); err != nil {
			return nil, err
		}
		node.Elifs = append(node.Elifs, clause)
	}

	_, hasElse, err := s.m.consumeIfMatches(elsePattern)
	if err != nil {
		return nil, err
	}
	if hasElse {
		if node.Else, err = s.parseBlock("else"); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseGuard parses "( COND )" after if, elif and while.
func (s *state) parseGuard(keyword string) (rgast.BoolExpr, error) {
	if _, err := s.m.require(openParen, "expected '(' after "+keyword); err != nil {
		return nil, err
	}
	cond, err := s.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := s.m.require(closeParen, "expected ')' after "+keyword+" condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (s *state) parseBlock(owner string) (*rgast.Sequence, error) {
	open, err := s.m.require(openBrace, "expected '{' to open "+owner+" block")
	if err != nil {
		return nil, err
	}
	if s.m.peekMatches(closeBrace) {
		return nil, s.m.failAt("empty " + owner + " block")
	}

	body := &rgast.Sequence{Pos: open.Pos()}
	for !s.m.atEnd() && !s.m.peekMatches(closeBrace) {
		stmt, err := s.parseStatement()
		if err != nil {
			return nil, err
		}
		body.Statements = append(body.Statements, stmt)
	}

	if _, err := s.m.require(closeBrace, "expected '}' to close "+owner+" block"); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *state) parseAssign() (rgast.Statement, error) {
	name, err := s.m.take()
	if err != nil {
		return nil, err
	}
	if _, err := s.m.require(assignOp, "expected '=' after "+name.Text); err != nil {
		return nil, err
	}
	value, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := s.m.require(semicolon, "expected ';' after assignment"); err != nil {
		return nil, err
	}
	return &rgast.SetVariable{Name: name.Text, Value: value, Pos: name.Pos()}, nil
}

func (s *state) parseCond() (rgast.BoolExpr, error) {
	switch {
	case s.m.peekMatches(relopPattern):
		tok, _ := s.m.take()
		op, _ := rgast.LookupRelOp(tok.Text)
		left, right, err := s.parseIntPair(tok.Text)
		if err != nil {
			return nil, err
		}
		return &rgast.Relational{Op: op, Left: left, Right: right, Pos: tok.Pos()}, nil

	case s.m.peekMatches(logicPattern):
		tok, _ := s.m.take()
		op, _ := rgast.LookupLogicOp(tok.Text)
		if _, err := s.m.require(openParen, "expected '(' after "+tok.Text); err != nil {
			return nil, err
		}
		left, err := s.parseCond()
		if err != nil {
			return nil, err
		}
		if _, err := s.m.require(comma, "expected ',' in "+tok.Text); err != nil {
			return nil, err
		}
		right, err := s.parseCond()
		if err != nil {
			return nil, err
		}
		if _, err := s.m.require(closeParen, "expected ')' to close "+tok.Text); err != nil {
			return nil, err
		}
		return &rgast.Logical{Op: op, Left: left, Right: right, Pos: tok.Pos()}, nil

	case s.m.peekMatches(notPattern):
		tok, _ := s.m.take()
		if _, err := s.m.require(openParen, "expected '(' after not"); err != nil {
			return nil, err
		}
		operand, err := s.parseCond()
		if err != nil {
			return nil, err
		}
		if _, err := s.m.require(closeParen, "expected ')' to close not"); err != nil {
			return nil, err
		}
		return &rgast.Not{Operand: operand, Pos: tok.Pos()}, nil

	default:
		return nil, s.m.failAt("expected condition")
	}
}

func (s *state) parseExpr() (rgast.IntExpr, error) {
	switch {
	case s.m.peekMatches(numPattern):
		value, tok, err := s.m.requireInt(numPattern, "expected integer")
		if err != nil {
			return nil, err
		}
		return &rgast.Literal{Value: value, Pos: tok.Pos()}, nil

	case s.m.peekMatches(varPattern):
		if s.m.peekMatchesAt(1, assignOp) {
			return nil, s.m.failAt("cannot assign in the middle of an expression")
		}
		tok, _ := s.m.take()
		return &rgast.VariableRef{Name: tok.Text, Pos: tok.Pos()}, nil

	case s.m.peekMatches(sensorPattern):
		return s.parseSensor()

	case s.m.peekMatches(arithPattern):
		tok, _ := s.m.take()
		op, _ := rgast.LookupArithOp(tok.Text)
		left, right, err := s.parseIntPair(tok.Text)
		if err != nil {
			return nil, err
		}
		return &rgast.BinaryOp{Op: op, Left: left, Right: right, Pos: tok.Pos()}, nil

	default:
		return nil, s.m.failAt("expected expression")
	}
}

func (s *state) parseSensor() (rgast.IntExpr, error) {
	tok, err := s.m.take()
	if err != nil {
		return nil, err
	}
	kind, _ := rgast.LookupSensor(tok.Text)
	node := &rgast.Sensor{Kind: kind, Pos: tok.Pos()}

	if !kind.Indexable() {
		return node, nil
	}
	_, open, err := s.m.consumeIfMatches(openParen)
	if err != nil {
		return nil, err
	}
	if open {
		if node.Index, err = s.parseExpr(); err != nil {
			return nil, err
		}
		if _, err := s.m.require(closeParen, "expected ')' after "+tok.Text+" index"); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseIntPair parses "( EXPR , EXPR )" after an operator keyword.
func (s *state) parseIntPair(keyword string) (rgast.IntExpr, rgast.IntExpr, error) {
	if _, err := s.m.require(openParen, "expected '(' after "+keyword); err != nil {
		return nil, nil, err
	}
	left, err := s.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.m.require(comma, "expected ',' in "+keyword); err != nil {
		return nil, nil, err
	}
	right, err := s.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.m.require(closeParen, "expected ')' to close "+keyword); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
