// File: codes.go
// Title: Error Codes and Severity
// Description: Classification codes for errors raised by the script front end,
//              the evaluator, the arena and the host services, plus the
//              severity levels derived from them.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation

package error

// Code classifies an error.
type Code string

const (
	// Generic
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"
	CodeCanceled     Code = "CANCELED"

	// Script language
	CodeScriptSyntax    Code = "SCRIPT_SYNTAX"
	CodeScriptRuntime   Code = "SCRIPT_RUNTIME"
	CodeDivisionByZero  Code = "DIVISION_BY_ZERO"
	CodeMalformedAST    Code = "MALFORMED_AST"
	CodeIterationLimit  Code = "ITERATION_LIMIT"
	CodeProgramTooLarge Code = "PROGRAM_TOO_LARGE"

	// Game host
	CodeRobotHalted  Code = "ROBOT_HALTED"
	CodeMatchFailed  Code = "MATCH_FAILED"
	CodeInvalidArena Code = "INVALID_ARENA"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid reports whether c is one of the declared codes.
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout, CodeCanceled,
		CodeScriptSyntax, CodeScriptRuntime, CodeDivisionByZero, CodeMalformedAST,
		CodeIterationLimit, CodeProgramTooLarge,
		CodeRobotHalted, CodeMatchFailed, CodeInvalidArena,
		CodeDatabaseError,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeScriptSyntax, CodeProgramTooLarge:
		return "syntax"
	case CodeScriptRuntime, CodeDivisionByZero, CodeMalformedAST, CodeIterationLimit:
		return "runtime"
	case CodeRobotHalted, CodeMatchFailed, CodeInvalidArena:
		return "game"
	case CodeDatabaseError:
		return "storage"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// Severity ranks how serious an error is.
type Severity int

const (
	// SeverityLow covers player mistakes such as a syntax error in a script.
	SeverityLow Severity = iota
	// SeverityMedium covers failures of a single run.
	SeverityMedium
	// SeverityHigh covers failures of host infrastructure.
	SeverityHigh
	// SeverityCritical means the process cannot continue.
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// SeverityFromCode returns the default severity for a code.
func SeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeDatabaseError, CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return SeverityHigh
	case CodeScriptSyntax, CodeProgramTooLarge, CodeInvalidInput, CodeNotFound, CodeCanceled:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
