// Package ast defines the syntax tree of the robot scripting language.
//
// Package: ast
// Title: Robot Script Abstract Syntax Tree
// Description: Closed node families for statements, integer expressions and
//              boolean conditions, together with tree rendering, a
//              canonical source formatter, a pre-order walker, a statistics
//              collector and a structural validator for trees that were not
//              produced by the parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-29 v0.1.0: Initial node model
// - 2026-10-02 v0.1.0: Formatter, walker and validator
//
// The three families are closed: each interface carries an unexported
// marker method, so only this package can add node kinds and consumers can
// dispatch with exhaustive type switches.
package ast
