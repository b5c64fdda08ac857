// File: evaluator.go
// Title: Expression Tree Evaluator
// Description: Walks an expression tree in post-order and applies the four
//              arithmetic operators under the configured division policy.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package evaluator

import (
	"errors"
	"fmt"

	mdwast "github.com/patelanuj7/calculatorapp/foundation/calc/ast"
)

// ErrDivisionByZero is returned under DivisionStrict when a divisor is zero
var ErrDivisionByZero = errors.New("division by zero")

// ErrInvalidTree is returned for trees that violate the node invariants
var ErrInvalidTree = errors.New("invalid expression tree")

// EvaluationError reports a failure at a specific operator node
type EvaluationError struct {
	Kind     error
	Operator mdwast.Operator
	Position int
}

func (ee *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error at position %d: %s (operator '%s')", ee.Position, ee.Kind, ee.Operator)
}

// Unwrap returns the error kind so errors.Is matches the sentinels
func (ee *EvaluationError) Unwrap() error {
	return ee.Kind
}

// DivisionPolicy selects how division by zero is handled
type DivisionPolicy int

const (
	// DivisionStrict fails with ErrDivisionByZero
	DivisionStrict DivisionPolicy = iota

	// DivisionIEEE lets non-finite results flow through
	DivisionIEEE
)

// String returns the config name of the policy
func (dp DivisionPolicy) String() string {
	switch dp {
	case DivisionStrict:
		return "strict"
	case DivisionIEEE:
		return "ieee"
	default:
		return "unknown"
	}
}

// ParseDivisionPolicy parses "strict" or "ieee"
func ParseDivisionPolicy(s string) (DivisionPolicy, error) {
	switch s {
	case "", "strict":
		return DivisionStrict, nil
	case "ieee":
		return DivisionIEEE, nil
	default:
		return DivisionStrict, fmt.Errorf("unknown division policy %q", s)
	}
}

// Options configures the evaluator
type Options struct {
	DivisionPolicy DivisionPolicy
}

// Evaluator evaluates expression trees. It holds no mutable state and is
// safe for concurrent use.
type Evaluator struct {
	options Options
}

// New creates an evaluator
func New(opts Options) (*Evaluator, error) {
	if opts.DivisionPolicy != DivisionStrict && opts.DivisionPolicy != DivisionIEEE {
		return nil, fmt.Errorf("unknown division policy %d", opts.DivisionPolicy)
	}
	return &Evaluator{options: opts}, nil
}

// Options returns the evaluator options
func (e *Evaluator) Options() Options {
	return e.options
}

// Evaluate computes the value of the tree rooted at node
func (e *Evaluator) Evaluate(node mdwast.Node) (float64, error) {
	switch n := node.(type) {
	case *mdwast.Leaf:
		return n.Value, nil

	case *mdwast.BinaryOp:
		if n.Left == nil || n.Right == nil {
			return 0, &EvaluationError{Kind: ErrInvalidTree, Operator: n.Op, Position: n.Pos.Offset}
		}

		left, err := e.Evaluate(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := e.Evaluate(n.Right)
		if err != nil {
			return 0, err
		}
		return e.apply(n, left, right)

	default:
		return 0, fmt.Errorf("%w: unsupported node %T", ErrInvalidTree, node)
	}
}

func (e *Evaluator) apply(n *mdwast.BinaryOp, left, right float64) (float64, error) {
	switch n.Op {
	case mdwast.OpAdd:
		return left + right, nil
	case mdwast.OpSub:
		return left - right, nil
	case mdwast.OpMul:
		return left * right, nil
	case mdwast.OpDiv:
		if right == 0 && e.options.DivisionPolicy == DivisionStrict {
			return 0, &EvaluationError{Kind: ErrDivisionByZero, Operator: n.Op, Position: n.Pos.Offset}
		}
		return left / right, nil
	default:
		return 0, &EvaluationError{Kind: ErrInvalidTree, Operator: n.Op, Position: n.Pos.Offset}
	}
}
