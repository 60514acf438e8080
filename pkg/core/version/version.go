// ============================================================================
// robogame - Robot Script Arena
// ============================================================================
//
// Package:     version
// Description: Central version management for the rsl tool and its
//              components
// Author:      Mike Stoffels
// Created:     2026-10-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for all components
const (
	// Platform version
	Platform = "0.1.0"

	// Component versions
	Language  = "1.0.0"
	Engine    = "0.1.0"
	Arena     = "0.1.0"
	Store     = "0.1.0"
	Spectator = "0.1.0"
)

// Build information, set with -ldflags "-X" at release time
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "language":
		return Language
	case "engine":
		return Engine
	case "arena":
		return Arena
	case "store":
		return Store
	case "spectator":
		return Spectator
	default:
		return Platform
	}
}

// String returns a one-line description of the build
func String() string {
	return fmt.Sprintf("rsl %s (language %s, commit %s, built %s, %s)",
		Platform, Language, Commit, BuildDate, runtime.Version())
}
