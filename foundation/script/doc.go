// Package script is the entry point for hosts that run robot scripts.
//
// Package: script
// Title: Robot Script Engine
// Description: Combines the parser, the validator and the evaluator behind a
//              single Engine. Parsed programs are cached by source hash so
//              that a host can rerun the same script for many robots and
//              many matches without reparsing it. Errors leaving the engine
//              are *rgerror.Error values carrying a domain code and the
//              source position; the underlying *parser.SyntaxError or
//              *executor.RuntimeError stays reachable through errors.As.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-05
// Modified: 2026-10-05
//
// Change History:
// - 2026-10-05 v0.1.0: Initial implementation
//
// Usage:
//
//	engine, err := script.NewEngine(script.Options{Logger: logger})
//	if err != nil {
//		return err
//	}
//	res, err := engine.Run(ctx, source, robot)
package script
