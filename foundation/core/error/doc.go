// Package error provides structured error handling for the calculator.
//
// Package: error
// Title: Calculator Error Handling
// Description: Structured errors with codes, severity, operation context and
//              details. Parser and evaluator failures are wrapped into this
//              type by the calc engine so every surface (CLI, TUI, gRPC,
//              websocket) can classify a failure without string matching.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2025-03-02 v0.2.0: Calculator error codes, errors.As based helpers
//
// Usage:
//
//	err := mdwerror.Wrap(parseErr, "expression could not be parsed").
//		WithCode(mdwerror.CodeMissingOperand).
//		WithOperation("calc.Evaluate").
//		WithDetail("expression", "5+")
//
//	if mdwerror.HasCode(err, mdwerror.CodeMissingOperand) {
//		// render "Error"
//	}
package error
