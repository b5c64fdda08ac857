// File: doc.go
// Title: Expression Evaluator Package Documentation
// Description: Post-order evaluation of expression trees.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

/*
Package evaluator computes the value of an expression tree.

Evaluation is a recursive post-order walk: a leaf yields its value, an
operator node evaluates both children and combines them with IEEE-754
double precision arithmetic. There is no short-circuiting and no overflow
detection beyond what float64 provides.

Division by zero is governed by DivisionPolicy:

  • DivisionStrict (default) - fails with ErrDivisionByZero whenever the
    divisor evaluates to zero, including 0/0
  • DivisionIEEE             - returns +Inf, -Inf or NaN as float64 does
*/
package evaluator
