// File: codes.go
// Title: Error Code Definitions
// Description: Standardized error codes used to classify calculator failures
//              across the engine, the history store and the servers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-03-02 v0.2.0: Replaced platform codes with calculator codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeUnavailable  Code = "UNAVAILABLE"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Lexical and structural expression errors
	CodeSyntax              Code = "CALC_SYNTAX"
	CodeUnbalancedParens    Code = "CALC_UNBALANCED_PARENS"
	CodeMissingOperand      Code = "CALC_MISSING_OPERAND"
	CodeMalformedExpression Code = "CALC_MALFORMED_EXPRESSION"
	CodeInvalidNumber       Code = "CALC_INVALID_NUMBER"
	CodeUnexpectedCharacter Code = "CALC_UNEXPECTED_CHARACTER"
	CodeInputTooLong        Code = "CALC_INPUT_TOO_LONG"

	// Arithmetic
	CodeDivisionByZero Code = "CALC_DIVISION_BY_ZERO"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeUnavailable,
		CodeDatabaseError, CodeConfigError, CodeInvalidConfig,
		CodeSyntax, CodeUnbalancedParens, CodeMissingOperand, CodeMalformedExpression,
		CodeInvalidNumber, CodeUnexpectedCharacter, CodeInputTooLong,
		CodeDivisionByZero:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeInvalidNumber, CodeUnexpectedCharacter, CodeInputTooLong:
		return "lexical"
	case CodeSyntax, CodeUnbalancedParens, CodeMissingOperand, CodeMalformedExpression:
		return "structural"
	case CodeDivisionByZero:
		return "arithmetic"
	case CodeDatabaseError:
		return "database"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// IsExpressionError reports whether the code describes a rejected expression
// rather than a failure of the surrounding system.
func (c Code) IsExpressionError() bool {
	switch c.Category() {
	case "lexical", "structural", "arithmetic":
		return true
	}
	return false
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch {
	case c == CodeNotFound:
		return 404
	case c == CodeInvalidInput, c.IsExpressionError():
		return 400
	case c == CodeDatabaseError, c == CodeUnavailable:
		return 503
	default:
		return 500
	}
}
