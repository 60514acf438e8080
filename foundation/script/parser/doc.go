// Package parser turns robot script source text into an ast.Sequence.
//
// Package: parser
// Title: Robot Script Parser
// Description: A delimiter based tokenizer, a pattern matching cursor over
//              the token stream and a recursive descent parser with one
//              procedure per grammar rule. Parsing stops at the first error,
//              which is reported as a *SyntaxError carrying the position and
//              the next few tokens of the input.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-29 v0.1.0: Initial implementation
// - 2026-09-30 v0.1.0: Bracket tracking and token positions
//
// Grammar:
//
//	PROG    ::= STMT*
//	STMT    ::= ACT ";" | LOOP | IF | WHILE | ASSIGN
//	ACT     ::= "move" [ "(" EXPR ")" ] | "turnL" | "turnR" | "turnAround"
//	          | "shieldOn" | "shieldOff" | "takeFuel" | "wait" [ "(" EXPR ")" ]
//	LOOP    ::= "loop" BLOCK
//	IF      ::= "if" "(" COND ")" BLOCK { "elif" "(" COND ")" BLOCK } [ "else" BLOCK ]
//	WHILE   ::= "while" "(" COND ")" BLOCK
//	ASSIGN  ::= VAR "=" EXPR ";"
//	BLOCK   ::= "{" STMT+ "}"
//	EXPR    ::= NUM | VAR | SENS | OP "(" EXPR "," EXPR ")"
//	SENS    ::= "fuelLeft" | "oppLR" | "oppFB" | "numBarrels" | "wallDist"
//	          | "barrelLR" [ "(" EXPR ")" ] | "barrelFB" [ "(" EXPR ")" ]
//	OP      ::= "add" | "sub" | "mul" | "div"
//	COND    ::= RELOP "(" EXPR "," EXPR ")" | "and" "(" COND "," COND ")"
//	          | "or" "(" COND "," COND ")" | "not" "(" COND ")"
//	RELOP   ::= "lt" | "gt" | "eq"
//	VAR     ::= "$" [A-Za-z] [A-Za-z0-9]*
//	NUM     ::= "-"? [1-9] [0-9]* | "0"
//
// Tokens are separated by white space; each of { } ( ) , ; is always a token
// of its own.
package parser
