// File: scanner_test.go
// Title: Expression Scanner Tests
// Description: Unit tests for token recognition, number literals and the
//              character policies.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package parser

import (
	"errors"
	"testing"
)

func TestScanner_Tokens(t *testing.T) {
	tokens, err := Tokenize("12.5*(3 - .5)", CharacterLenient)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []struct {
		typ      TokenType
		value    string
		position int
	}{
		{TokenNumber, "12.5", 0},
		{TokenOperator, "*", 4},
		{TokenLeftParen, "(", 5},
		{TokenNumber, "3", 6},
		{TokenOperator, "-", 8},
		{TokenNumber, ".5", 10},
		{TokenRightParen, ")", 12},
		{TokenEOF, "", 13},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}

	for i, exp := range expected {
		tok := tokens[i]
		if tok.Type != exp.typ || tok.Value != exp.value || tok.Position != exp.position {
			t.Errorf("Token %d: expected %s(%s)@%d, got %s@%d", i, exp.typ, exp.value, exp.position, tok, tok.Position)
		}
	}

	if tokens[0].Number != 12.5 {
		t.Errorf("Expected parsed number 12.5, got %v", tokens[0].Number)
	}
	if tokens[5].Number != 0.5 {
		t.Errorf("Expected parsed number 0.5, got %v", tokens[5].Number)
	}
}

func TestScanner_NumberLiterals(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"3.14159", 3.14159, false},
		{"1.", 1, false},
		{".25", 0.25, false},
		{"007", 7, false},
		{"1.2.3", 0, true},
		{".", 0, true},
		{"..", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok, err := NewScanner(tt.input, CharacterLenient).Next()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNumber) {
					t.Fatalf("Expected ErrInvalidNumber, got %v", err)
				}
				var pe *ParseError
				if !errors.As(err, &pe) || pe.Near != tt.input {
					t.Errorf("Expected whole run %q as near text, got %+v", tt.input, pe)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tok.Number != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, tok.Number)
			}
		})
	}
}

func TestScanner_LenientSkipsUnknownCharacters(t *testing.T) {
	tokens, err := Tokenize("a1 % b+ ^2x", CharacterLenient)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var got []string
	for _, tok := range tokens {
		got = append(got, tok.String())
	}

	want := []string{"NUMBER(1)", "OPERATOR(+)", "NUMBER(2)", "EOF"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestScanner_StrictRejectsUnknownCharacters(t *testing.T) {
	tests := []struct {
		input    string
		position int
		near     string
	}{
		{"1+x", 2, "x"},
		{"2^3", 1, "^"},
		{"5%2", 1, "%"},
		{"1+ä", 2, "ä"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Tokenize(tt.input, CharacterStrict)
			if !errors.Is(err, ErrUnexpectedCharacter) {
				t.Fatalf("Expected ErrUnexpectedCharacter, got %v", err)
			}
			var pe *ParseError
			errors.As(err, &pe)
			if pe.Position != tt.position || pe.Near != tt.near {
				t.Errorf("Expected %q at %d, got %q at %d", tt.near, tt.position, pe.Near, pe.Position)
			}
		})
	}

	if _, err := Tokenize(" 1 +\t2\n", CharacterStrict); err != nil {
		t.Errorf("Expected whitespace to be accepted in strict mode, got %v", err)
	}
}

func TestParseCharacterPolicy(t *testing.T) {
	if p, err := ParseCharacterPolicy("strict"); err != nil || p != CharacterStrict {
		t.Errorf("Expected strict, got %v, %v", p, err)
	}
	if p, err := ParseCharacterPolicy(""); err != nil || p != CharacterLenient {
		t.Errorf("Expected lenient default, got %v, %v", p, err)
	}
	if _, err := ParseCharacterPolicy("loose"); err == nil {
		t.Error("Expected error for unknown policy")
	}
	if CharacterStrict.String() != "strict" {
		t.Errorf("Unexpected String(): %s", CharacterStrict)
	}
}
