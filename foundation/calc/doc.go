// File: doc.go
// Title: Calculator Engine Package Documentation
// Description: High-level entry point that parses and evaluates arithmetic
//              expressions in one call.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

/*
Package calc is the evaluator core of the calculator.

	value, err := calc.EvaluateExpression("2*(3+4*(5-2))") // 30

EvaluateExpression and Engine.Evaluate turn a string into a float64 or a
single failure. The pipeline is

	text -> parser (shunting-yard) -> ast tree -> evaluator -> float64

and nothing flows back: each call builds and discards its own stacks and
tree, so an Engine is safe to share between goroutines and repeated calls
with the same text always give the same outcome.

Failures are *mdwerror.Error values carrying a calculator code
(CALC_MISSING_OPERAND, CALC_DIVISION_BY_ZERO, ...) and wrapping the
parser or evaluator error, so both

	mdwerror.HasCode(err, mdwerror.CodeUnbalancedParens)
	errors.Is(err, parser.ErrUnbalancedParens)

work. Presentation layers typically show every failure as "Error".
*/
package calc
