// File: doc.go
// Title: Package Documentation for mathx
// Description: Package mathx provides the calculator's unary functions,
//              modulo on two plain numbers and display formatting.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2025-03-04
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2025-03-04 v0.3.0: Reworked into calculator functions and display formatting

// Package mathx provides the calculator's function keys and display rules.
//
// The expression grammar only knows + - * / and parentheses. Everything else
// a calculator keypad offers is applied to the value currently on the
// display, outside the grammar:
//
//	v, err := mathx.Apply(mathx.FuncSin, 30)   // 0.5, input in degrees
//	s, err := mathx.FactorialString("25")      // arbitrary precision
//	r, err := mathx.EvaluateModulo("10%3")     // 1
//
// Results are shown with FormatResult, which always uses five decimal
// places. DisplayError turns any failure into the short text the display
// shows ("Error", "Error: Invalid input", ...).
//
// Domain failures are reported through the sentinels ErrInvalidInput,
// ErrNonPositiveInput, ErrNegativeInput and ErrModuloByZero.
package mathx
