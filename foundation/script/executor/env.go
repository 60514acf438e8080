// File: env.go
// Title: Variable Environment
// Description: Name to integer bindings of one running script.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-30
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-30 v0.1.0: Initial implementation

package executor

import (
	"sort"
)

// Environment holds the variables of one script run. It is not safe for
// concurrent use; every concurrently running script needs its own.
type Environment struct {
	vars map[string]int64
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]int64)}
}

// Get returns the value of name. An unknown variable is bound to 0 first.
func (e *Environment) Get(name string) int64 {
	v, ok := e.vars[name]
	if !ok {
		e.vars[name] = 0
	}
	return v
}

// Lookup returns the value of name without binding it.
func (e *Environment) Lookup(name string) (int64, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to value, replacing any previous binding.
func (e *Environment) Set(name string, value int64) {
	e.vars[name] = value
}

// Len returns the number of bound variables.
func (e *Environment) Len() int {
	return len(e.vars)
}

// Names returns the bound variable names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of all bindings.
func (e *Environment) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// Reset removes all bindings.
func (e *Environment) Reset() {
	clear(e.vars)
}
