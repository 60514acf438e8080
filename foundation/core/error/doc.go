// Package error provides the structured error type shared by the RoboGame
// scripting foundation and the game host.
//
// Package: error
// Title: RoboGame Error Handling
// Description: Structured errors with a classification code, a severity,
//              key/value details and an optional cause. Script syntax and
//              runtime failures are surfaced through this type by the script
//              engine so that the CLI, the match driver and the run store can
//              report them uniformly.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation with codes, severity and details
//
// Usage:
//
//	import rgerror "github.com/msto63/robogame/foundation/core/error"
//
//	err := rgerror.New("division by zero").
//		WithCode(rgerror.CodeDivisionByZero).
//		WithOperation("script.execute").
//		WithDetail("line", 3)
//
//	if rgerror.HasCode(err, rgerror.CodeDivisionByZero) {
//		// report to the player
//	}
package error
