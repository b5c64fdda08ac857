// File: evaluator_test.go
// Title: Expression Evaluator Tests
// Description: Tests for arithmetic, division policies and invalid trees.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package evaluator

import (
	"errors"
	"math"
	"testing"

	mdwast "github.com/patelanuj7/calculatorapp/foundation/calc/ast"
)

func leaf(v float64) mdwast.Node {
	return mdwast.NewLeaf(v, mdwast.Position{})
}

func bin(op mdwast.Operator, l, r mdwast.Node) mdwast.Node {
	return mdwast.NewBinaryOp(op, l, r, mdwast.Position{Offset: 1})
}

func mustEvaluator(t *testing.T, policy DivisionPolicy) *Evaluator {
	t.Helper()
	e, err := New(Options{DivisionPolicy: policy})
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}
	return e
}

func TestEvaluate(t *testing.T) {
	e := mustEvaluator(t, DivisionStrict)

	tests := []struct {
		name string
		tree mdwast.Node
		want float64
	}{
		{"Leaf", leaf(3.5), 3.5},
		{"Add", bin(mdwast.OpAdd, leaf(2), leaf(3)), 5},
		{"Sub", bin(mdwast.OpSub, leaf(2), leaf(3)), -1},
		{"Mul", bin(mdwast.OpMul, leaf(2), leaf(3)), 6},
		{"Div", bin(mdwast.OpDiv, leaf(3), leaf(2)), 1.5},
		{"Left associative", bin(mdwast.OpSub, bin(mdwast.OpSub, leaf(10), leaf(2)), leaf(3)), 5},
		{"Nested", bin(mdwast.OpMul, leaf(2), bin(mdwast.OpAdd, leaf(3), bin(mdwast.OpMul, leaf(4), bin(mdwast.OpSub, leaf(5), leaf(2))))), 30},
		{"Zero dividend", bin(mdwast.OpDiv, leaf(0), leaf(4)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.tree)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluate_DivisionStrict(t *testing.T) {
	e := mustEvaluator(t, DivisionStrict)

	for _, tree := range []mdwast.Node{
		bin(mdwast.OpDiv, leaf(5), leaf(0)),
		bin(mdwast.OpDiv, leaf(0), leaf(0)),
		bin(mdwast.OpDiv, leaf(1), bin(mdwast.OpSub, leaf(2), leaf(2))),
	} {
		_, err := e.Evaluate(tree)
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("%s: expected ErrDivisionByZero, got %v", tree, err)
		}
		var ee *EvaluationError
		if !errors.As(err, &ee) || ee.Operator != mdwast.OpDiv || ee.Position != 1 {
			t.Errorf("%s: unexpected error details %+v", tree, ee)
		}
	}
}

func TestEvaluate_DivisionIEEE(t *testing.T) {
	e := mustEvaluator(t, DivisionIEEE)

	got, err := e.Evaluate(bin(mdwast.OpDiv, leaf(5), leaf(0)))
	if err != nil || !math.IsInf(got, 1) {
		t.Errorf("Expected +Inf, got %v, %v", got, err)
	}

	got, err = e.Evaluate(bin(mdwast.OpDiv, bin(mdwast.OpSub, leaf(0), leaf(5)), leaf(0)))
	if err != nil || !math.IsInf(got, -1) {
		t.Errorf("Expected -Inf, got %v, %v", got, err)
	}

	got, err = e.Evaluate(bin(mdwast.OpDiv, leaf(0), leaf(0)))
	if err != nil || !math.IsNaN(got) {
		t.Errorf("Expected NaN, got %v, %v", got, err)
	}
}

func TestEvaluate_InvalidTree(t *testing.T) {
	e := mustEvaluator(t, DivisionStrict)

	trees := []mdwast.Node{
		mdwast.NewBinaryOp(mdwast.OpAdd, leaf(1), nil, mdwast.Position{}),
		mdwast.NewBinaryOp(mdwast.Operator('^'), leaf(2), leaf(3), mdwast.Position{}),
		nil,
	}

	for _, tree := range trees {
		if _, err := e.Evaluate(tree); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("Expected ErrInvalidTree, got %v", err)
		}
	}
}

func TestPolicies(t *testing.T) {
	if _, err := New(Options{DivisionPolicy: DivisionPolicy(9)}); err == nil {
		t.Error("Expected error for unknown policy")
	}
	if p, err := ParseDivisionPolicy("ieee"); err != nil || p != DivisionIEEE {
		t.Errorf("Expected ieee, got %v, %v", p, err)
	}
	if p, err := ParseDivisionPolicy(""); err != nil || p != DivisionStrict {
		t.Errorf("Expected strict default, got %v, %v", p, err)
	}
	if _, err := ParseDivisionPolicy("lenient"); err == nil {
		t.Error("Expected error for unknown policy name")
	}
	if DivisionIEEE.String() != "ieee" {
		t.Errorf("Unexpected String(): %s", DivisionIEEE)
	}
}
