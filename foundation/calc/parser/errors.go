// File: errors.go
// Title: Parser Errors
// Description: Sentinel error kinds and the positional ParseError type.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package parser

import (
	"errors"
	"fmt"
)

// Error kinds reported by the scanner and the parser
var (
	ErrUnbalancedParens    = errors.New("unbalanced parentheses")
	ErrMissingOperand      = errors.New("missing operand")
	ErrMalformedExpression = errors.New("malformed expression")
	ErrInvalidNumber       = errors.New("invalid number literal")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrInputTooLong        = errors.New("input too long")
)

// ParseError represents a parsing error with position information
type ParseError struct {
	Kind     error  // One of the Err* sentinels
	Message  string // Human readable description
	Position int    // Byte position in input
	Near     string // Offending token text, may be empty
}

func (pe *ParseError) Error() string {
	if pe.Near == "" {
		return fmt.Sprintf("parse error at position %d: %s", pe.Position, pe.Message)
	}
	return fmt.Sprintf("parse error at position %d: %s (near '%s')", pe.Position, pe.Message, pe.Near)
}

// Unwrap returns the error kind so errors.Is matches the sentinels
func (pe *ParseError) Unwrap() error {
	return pe.Kind
}

func newParseError(kind error, position int, near, message string) *ParseError {
	return &ParseError{Kind: kind, Message: message, Position: position, Near: near}
}
