// File: error.go
// Title: Core Error Implementation
// Description: Implements the main Error type with code, severity, operation
//              context, details and a captured stack trace. Compatible with
//              the standard errors package through Unwrap.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2025-03-02 v0.2.0: Dropped user/localization context, errors.As helpers

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Error represents a structured error with context, codes, and metadata
type Error struct {
	message     string
	cause       error
	code        Code
	severity    Severity
	severitySet bool
	timestamp   time.Time

	details   map[string]interface{}
	operation string
	requestID string

	stackTrace []StackFrame
}

// StackFrame represents a single frame in the stack trace
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

const (
	// MaxErrorChainDepth limits the depth of error wrapping
	MaxErrorChainDepth = 15

	// MaxStackFrames limits the number of stack frames captured
	MaxStackFrames = 20
)

// New creates a new Error with the given message
func New(message string) *Error {
	return &Error{
		message:    message,
		code:       CodeUnknown,
		severity:   SeverityMedium,
		timestamp:  time.Now(),
		details:    make(map[string]interface{}),
		stackTrace: captureStackTrace(3),
	}
}

// Newf creates a new Error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	err := New(fmt.Sprintf(format, args...))
	err.stackTrace = captureStackTrace(3)
	return err
}

// Wrap wraps an existing error with additional context.
// Code, severity and details of a wrapped *Error are inherited.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if depth := chainDepth(err); depth >= MaxErrorChainDepth {
		return &Error{
			message:     fmt.Sprintf("%s (chain truncated at depth %d): %s", message, MaxErrorChainDepth, rootCause(err).Error()),
			code:        GetCode(err),
			severity:    SeverityHigh,
			severitySet: true,
			timestamp:   time.Now(),
			details:     map[string]interface{}{"truncated": true, "original_depth": depth},
			stackTrace:  captureStackTrace(3),
		}
	}

	var mdwErr *Error
	if errors.As(err, &mdwErr) {
		wrapped := &Error{
			message:     message,
			cause:       err,
			code:        mdwErr.code,
			severity:    mdwErr.severity,
			severitySet: mdwErr.severitySet,
			timestamp:   time.Now(),
			details:     make(map[string]interface{}, len(mdwErr.details)),
			operation:   mdwErr.operation,
			requestID:   mdwErr.requestID,
			stackTrace:  captureStackTrace(3),
		}
		for k, v := range mdwErr.details {
			wrapped.details[k] = v
		}
		return wrapped
	}

	return &Error{
		message:    message,
		cause:      err,
		code:       CodeUnknown,
		severity:   SeverityMedium,
		timestamp:  time.Now(),
		details:    make(map[string]interface{}),
		stackTrace: captureStackTrace(3),
	}
}

func chainDepth(err error) int {
	depth := 0
	for current := err; current != nil && depth < MaxErrorChainDepth*2; current = errors.Unwrap(current) {
		depth++
	}
	return depth
}

func rootCause(err error) error {
	last := err
	for current := err; current != nil; current = errors.Unwrap(current) {
		last = current
	}
	return last
}

// Error implements the standard error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.message, e.cause.Error())
	}
	return e.message
}

// Unwrap returns the underlying cause for error unwrapping
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the error code. The severity follows the code unless it
// was set explicitly.
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	if !e.severitySet {
		e.severity = GetSeverityFromCode(code)
	}
	return e
}

// WithSeverity sets the error severity
func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	e.severitySet = true
	return e
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// WithOperation sets the operation that caused the error
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithRequestID sets the request ID associated with the error
func (e *Error) WithRequestID(requestID string) *Error {
	e.requestID = requestID
	return e
}

// Message returns the message of this error without its cause
func (e *Error) Message() string {
	return e.message
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Severity returns the error severity
func (e *Error) Severity() Severity {
	return e.severity
}

// Timestamp returns when the error occurred
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// Details returns a copy of the error details
func (e *Error) Details() map[string]interface{} {
	result := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		result[k] = v
	}
	return result
}

// Operation returns the operation that caused the error
func (e *Error) Operation() string {
	return e.operation
}

// RequestID returns the request ID associated with the error
func (e *Error) RequestID() string {
	return e.requestID
}

// StackTrace returns the stack trace
func (e *Error) StackTrace() []StackFrame {
	result := make([]StackFrame, len(e.stackTrace))
	copy(result, e.stackTrace)
	return result
}

// RootCause returns the innermost error of the chain
func (e *Error) RootCause() error {
	return rootCause(e)
}

// String returns a detailed multi-line representation of the error
func (e *Error) String() string {
	parts := []string{
		fmt.Sprintf("Error: %s", e.message),
		fmt.Sprintf("Code: %s", e.code),
		fmt.Sprintf("Severity: %s", e.severity),
		fmt.Sprintf("Timestamp: %s", e.timestamp.Format(time.RFC3339)),
	}

	if e.operation != "" {
		parts = append(parts, fmt.Sprintf("Operation: %s", e.operation))
	}
	if e.requestID != "" {
		parts = append(parts, fmt.Sprintf("RequestID: %s", e.requestID))
	}

	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		detailStrs := make([]string, 0, len(keys))
		for _, k := range keys {
			detailStrs = append(detailStrs, fmt.Sprintf("%s=%v", k, e.details[k]))
		}
		parts = append(parts, fmt.Sprintf("Details: {%s}", strings.Join(detailStrs, ", ")))
	}

	if e.cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %s", e.cause.Error()))
	}

	return strings.Join(parts, "\n")
}

// MarshalJSON implements json.Marshaler for structured logging
func (e *Error) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{
		"message":   e.message,
		"code":      e.code,
		"severity":  e.severity.String(),
		"timestamp": e.timestamp.Format(time.RFC3339),
		"details":   e.details,
	}

	if e.operation != "" {
		data["operation"] = e.operation
	}
	if e.requestID != "" {
		data["request_id"] = e.requestID
	}
	if e.cause != nil {
		data["cause"] = e.cause.Error()
	}
	if len(e.stackTrace) > 0 {
		data["stack_trace"] = e.stackTrace
	}

	return json.Marshal(data)
}

func captureStackTrace(skip int) []StackFrame {
	pcs := make([]uintptr, MaxStackFrames)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	result := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		result = append(result, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
	return result
}

// HasCode checks if an error chain carries a specific code
func HasCode(err error, code Code) bool {
	var mdwErr *Error
	if errors.As(err, &mdwErr) {
		return mdwErr.code == code
	}
	return false
}

// GetCode returns the error code from an error, or CodeUnknown if the chain
// holds no *Error
func GetCode(err error) Code {
	var mdwErr *Error
	if errors.As(err, &mdwErr) {
		return mdwErr.code
	}
	return CodeUnknown
}

// GetSeverity returns the error severity from an error, or SeverityMedium
func GetSeverity(err error) Severity {
	var mdwErr *Error
	if errors.As(err, &mdwErr) {
		return mdwErr.severity
	}
	return SeverityMedium
}
