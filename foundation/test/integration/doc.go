// Package integration holds tests that cross the foundation module
// boundaries.
//
// Package: integration
// Title: Foundation Integration Tests
// Description: Verifies that the parser, the executor and the script engine
//              agree on error codes, that formatted programs behave like
//              their source and that engine components log through the
//              foundation logger.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-10
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of integration test suite
// - 2026-10-10 v0.2.0: Rewritten for the script engine
//
// Test Categories:
//
// Error Integration Tests (script_integration_test.go):
// - Error codes of every layer surface through the engine
// - Typed parser and runtime errors stay reachable with errors.As
//
// Behavior Integration Tests (script_integration_test.go):
// - Format output parses to a program with identical behavior
// - Engine logging uses the foundation logger
package integration
