// File: walk.go
// Title: Tree Walking and Statistics
// Description: Children enumerates the direct sub-nodes of any node, Inspect
//              walks a tree in pre-order and Collect gathers program
//              statistics for tooling.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-02
// Modified: 2026-10-02
//
// Change History:
// - 2026-10-02 v0.1.0: Initial implementation

package ast

import (
	"sort"
)

// Children returns the direct sub-nodes of n in source order. Nil operands
// are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if !IsNil(c) {
			out = append(out, c)
		}
	}
	addSeq := func(s *Sequence) {
		if s != nil {
			out = append(out, s)
		}
	}

	switch n := n.(type) {
	case *Sequence:
		for _, s := range n.Statements {
			add(s)
		}
	case *Move:
		add(n.Steps)
	case *Wait:
		add(n.Ticks)
	case *Loop:
		addSeq(n.Body)
	case *While:
		add(n.Cond)
		addSeq(n.Body)
	case *If:
		add(n.Cond)
		addSeq(n.Then)
		for _, e := range n.Elifs {
			add(e.Cond)
			addSeq(e.Body)
		}
		addSeq(n.Else)
	case *SetVariable:
		add(n.Value)
	case *Sensor:
		add(n.Index)
	case *BinaryOp:
		add(n.Left)
		add(n.Right)
	case *Relational:
		add(n.Left)
		add(n.Right)
	case *Logical:
		add(n.Left)
		add(n.Right)
	case *Not:
		add(n.Operand)
	}
	return out
}

// Inspect traverses the tree rooted at n in pre-order, calling fn for each
// node. If fn returns false the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if IsNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

// Stats summarizes a program.
type Stats struct {
	Statements   int            // statements, excluding sequences
	Actions      map[string]int // action keyword -> occurrences
	Loops        int            // loop and while statements
	Conditionals int            // if statements
	Assignments  int
	Sensors      map[string]int // sensor keyword -> occurrences
	Variables    []string       // sorted, distinct
	MaxDepth     int            // deepest block nesting
}

// Collect walks the tree rooted at n and returns its statistics.
func Collect(n Node) Stats {
	st := Stats{
		Actions: make(map[string]int),
		Sensors: make(map[string]int),
	}
	vars := make(map[string]struct{})

	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		switch v := n.(type) {
		case *Sequence:
			if depth > st.MaxDepth {
				st.MaxDepth = depth
			}
		case *Move:
			st.Statements++
			st.Actions["move"]++
		case *Wait:
			st.Statements++
			st.Actions["wait"]++
		case *TurnLeft, *TurnRight, *TurnAround, *TakeFuel, *ShieldOn, *ShieldOff:
			st.Statements++
			st.Actions[v.String()]++
		case *Loop, *While:
			st.Statements++
			st.Loops++
		case *If:
			st.Statements++
			st.Conditionals++
		case *SetVariable:
			st.Statements++
			st.Assignments++
			vars[v.Name] = struct{}{}
		case *VariableRef:
			vars[v.Name] = struct{}{}
		case *Sensor:
			st.Sensors[v.Kind.String()]++
		}

		next := depth
		if _, ok := n.(*Sequence); ok {
			next = depth + 1
		}
		for _, c := range Children(n) {
			walk(c, next)
		}
	}
	if n != nil {
		walk(n, 0)
	}

	for name := range vars {
		st.Variables = append(st.Variables, name)
	}
	sort.Strings(st.Variables)
	return st
}
