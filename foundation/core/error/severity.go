// File: severity.go
// Title: Error Severity Levels
// Description: Severity classification used by the logger to pick a level
//              for a failed operation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow covers rejected user input such as a malformed expression
	SeverityLow Severity = iota

	// SeverityMedium covers failures with a workaround
	SeverityMedium

	// SeverityHigh covers failures of a backing resource such as the history database
	SeverityHigh

	// SeverityCritical makes the process unusable
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

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch {
	case code.IsExpressionError(), code == CodeInvalidInput, code == CodeNotFound:
		return SeverityLow
	case code == CodeDatabaseError, code == CodeConfigError, code == CodeInvalidConfig:
		return SeverityHigh
	case code == CodeInternal:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
