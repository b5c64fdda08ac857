// File: format_test.go
// Title: Unit Tests for Display Formatting
// Description: Tests for fixed-precision output and failure texts.
// Author: msto63
// Version: v0.3.0
// Created: 2025-03-04
// Modified: 2025-03-04

package mathx

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{14, "14.00000"},
		{2.5, "2.50000"},
		{-3, "-3.00000"},
		{1.0 / 3.0, "0.33333"},
		{0, "0.00000"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatResult(tt.input); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestDisplayError(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, ""},
		{ErrNonPositiveInput, NonPositiveInputText},
		{fmt.Errorf("ln: %w", ErrNonPositiveInput), NonPositiveInputText},
		{ErrNegativeInput, NegativeInputText},
		{ErrInvalidInput, InvalidInputText},
		{ErrModuloByZero, ErrorText},
		{errors.New("parse error"), ErrorText},
	}

	for _, tt := range tests {
		if got := DisplayError(tt.err); got != tt.expected {
			t.Errorf("DisplayError(%v): expected %q, got %q", tt.err, tt.expected, got)
		}
	}
}

func TestIsErrorText(t *testing.T) {
	if !IsErrorText(ErrorText) || !IsErrorText(NegativeInputText) {
		t.Error("Expected error texts to be recognized")
	}
	if IsErrorText("14.00000") {
		t.Error("Did not expect a result to be an error text")
	}
}
