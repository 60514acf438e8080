// Package executor evaluates robot script syntax trees against a Robot.
//
// Package: executor
// Title: Robot Script Tree-Walking Evaluator
// Description: Executes statements depth-first and synchronously, calling
//              the robot's actuators and sensors as the program demands.
//              Variables live in an Environment owned by the caller, one per
//              running script. The evaluator checks its context between
//              loop iterations and action repetitions so that a host can stop
//              a script that never terminates on its own.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-30
// Modified: 2026-10-04
//
// Change History:
// - 2026-09-30 v0.1.0: Initial evaluator
// - 2026-10-04 v0.1.0: Trace events and iteration limit
//
// Semantics worth knowing:
//   - move(n) and wait(n) perform n robot calls; n <= 0 performs none.
//   - Reading an unset variable yields 0 and records the variable.
//   - and/or always evaluate both operands, left first.
//   - Division truncates toward zero; dividing by zero stops the run.
package executor
