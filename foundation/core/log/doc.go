// Package log provides structured logging for the RoboGame scripting
// foundation and the game host.
//
// Package: log
// Title: RoboGame Structured Logging
// Description: Leveled, structured logging with immutable contextual clones,
//              several output formats and a lightweight timer for measuring
//              parse and run durations. Entries can carry the run ID and the
//              robot name so that the output of two concurrently running
//              scripts stays attributable.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation
//
// Usage:
//
//	import rglog "github.com/msto63/robogame/foundation/core/log"
//
//	logger := rglog.NewWithConfig(rglog.Config{Level: rglog.LevelDebug, Format: rglog.FormatConsole}).
//		WithField("component", "match").
//		WithRun(runID)
//
//	logger.Info("match started", rglog.Fields{"scripts": 2})
//
//	timer := logger.StartTimer("parse")
//	defer timer.Stop()
package log
