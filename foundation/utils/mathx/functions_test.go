// File: functions_test.go
// Title: Unit Tests for Calculator Functions
// Description: Tests for degree-based trigonometry, logarithms, factorial
//              and modulo including their domain failures.
// Author: msto63
// Version: v0.3.0
// Created: 2025-03-04
// Modified: 2025-03-04

package mathx

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{FuncSin, 30, 0.5},
		{FuncSin, 90, 1},
		{FuncCos, 60, 0.5},
		{FuncCos, 0, 1},
		{FuncTan, 45, 1},
		{FuncAbs, -3.5, 3.5},
		{FuncAbs, 2, 2},
		{FuncLog, 1000, 3},
		{FuncLn, math.E, 1},
		{FuncExp, 0, 1},
		{FuncExp, 1, math.E},
		{"SIN", 30, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.name, tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > epsilon {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestApply_Failures(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  error
	}{
		{FuncLog, 0, ErrNonPositiveInput},
		{FuncLog, -1, ErrNonPositiveInput},
		{FuncLn, 0, ErrNonPositiveInput},
		{FuncLn, -5, ErrNonPositiveInput},
		{"sqrt", 4, ErrUnknownFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.name, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestApplyString(t *testing.T) {
	got, err := ApplyString(FuncAbs, " -4.25 ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != 4.25 {
		t.Errorf("Expected 4.25, got %v", got)
	}

	if _, err := ApplyString(FuncSin, "2+3"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestFunctionNames(t *testing.T) {
	names := FunctionNames()
	expected := []string{"abs", "cos", "exp", "ln", "log", "sin", "tan"}

	if len(names) != len(expected) {
		t.Fatalf("Expected %d names, got %d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Expected %s at %d, got %s", name, i, names[i])
		}
		if !IsFunction(name) {
			t.Errorf("Expected %s to be a function", name)
		}
	}
	if IsFunction("sqrt") {
		t.Error("Did not expect sqrt to be a function")
	}
}

func TestFactorial(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "1"},
		{"1", "1"},
		{"5", "120"},
		{"10", "3628800"},
		{"25", "15511210043330985984000000"},
		{" 3 ", "6"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FactorialString(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestFactorial_Failures(t *testing.T) {
	if _, err := FactorialString("-1"); !errors.Is(err, ErrNegativeInput) {
		t.Errorf("Expected ErrNegativeInput, got %v", err)
	}
	if _, err := FactorialString("2.5"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := FactorialString(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := Factorial(MaxFactorial + 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestEvaluateModulo(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"10%3", 1},
		{"7.5%2", 1.5},
		{"-7%3", -1},
		{"9%3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if !HasModulo(tt.input) {
				t.Fatalf("Expected %q to be a modulo entry", tt.input)
			}
			got, err := EvaluateModulo(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > epsilon {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestEvaluateModulo_Failures(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"5%0", ErrModuloByZero},
		{"1%2%3", ErrInvalidInput},
		{"%3", ErrInvalidInput},
		{"2+1%3", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := EvaluateModulo(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if HasModulo(strings.Repeat("1", 3)) {
		t.Error("Did not expect plain number to be a modulo entry")
	}
}

func BenchmarkApply(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Apply(FuncSin, 30)
	}
}

func BenchmarkFactorial(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Factorial(100)
	}
}
