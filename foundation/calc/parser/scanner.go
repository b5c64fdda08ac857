// File: scanner.go
// Title: Expression Scanner (Tokenizer)
// Description: Recognizes numbers, operators and parentheses in an
//              expression string. Numbers are maximal runs of digits and
//              '.' characters parsed as base-10 floating point literals.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package parser

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	mdwast "github.com/patelanuj7/calculatorapp/foundation/calc/ast"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenOperator
	TokenLeftParen
	TokenRightParen
)

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "NUMBER"
	case TokenOperator:
		return "OPERATOR"
	case TokenLeftParen:
		return "LEFT_PAREN"
	case TokenRightParen:
		return "RIGHT_PAREN"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token with position information
type Token struct {
	Type     TokenType
	Value    string          // Token text
	Number   float64         // Parsed value for TokenNumber
	Operator mdwast.Operator // Operator for TokenOperator
	Position int             // Byte position in input
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Value)
}

// CharacterPolicy decides what happens to characters that are not part of
// the grammar
type CharacterPolicy int

const (
	// CharacterLenient skips unknown characters silently
	CharacterLenient CharacterPolicy = iota

	// CharacterStrict rejects unknown characters with ErrUnexpectedCharacter
	CharacterStrict
)

// String returns the config name of the policy
func (cp CharacterPolicy) String() string {
	switch cp {
	case CharacterLenient:
		return "lenient"
	case CharacterStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseCharacterPolicy parses "lenient" or "strict"
func ParseCharacterPolicy(s string) (CharacterPolicy, error) {
	switch s {
	case "", "lenient":
		return CharacterLenient, nil
	case "strict":
		return CharacterStrict, nil
	default:
		return CharacterLenient, fmt.Errorf("unknown character policy %q", s)
	}
}

// Scanner performs lexical analysis of an expression
type Scanner struct {
	input    string
	position int
	policy   CharacterPolicy
}

// NewScanner creates a new scanner for the given input
func NewScanner(input string, policy CharacterPolicy) *Scanner {
	return &Scanner{input: input, policy: policy}
}

// Next returns the next token, TokenEOF at the end of input, or a
// *ParseError for an invalid number or (strict policy) an unknown character
func (s *Scanner) Next() (Token, error) {
	for s.position < len(s.input) {
		pos := s.position
		ch := s.input[pos]

		switch {
		case isDigit(ch) || ch == '.':
			return s.readNumber()
		case ch == '(':
			s.position++
			return Token{Type: TokenLeftParen, Value: "(", Position: pos}, nil
		case ch == ')':
			s.position++
			return Token{Type: TokenRightParen, Value: ")", Position: pos}, nil
		case isOperator(ch):
			s.position++
			return Token{Type: TokenOperator, Value: string(ch), Operator: mdwast.Operator(ch), Position: pos}, nil
		case isWhitespace(ch) || s.policy == CharacterLenient:
			s.position++
		default:
			r, size := utf8.DecodeRuneInString(s.input[pos:])
			s.position += size
			return Token{}, newParseError(ErrUnexpectedCharacter, pos, string(r),
				fmt.Sprintf("unexpected character %q", r))
		}
	}

	return Token{Type: TokenEOF, Position: len(s.input)}, nil
}

// readNumber consumes the maximal run of digits and dots. The run is not
// checked for a single '.', strconv decides whether it is a valid literal.
func (s *Scanner) readNumber() (Token, error) {
	start := s.position
	for s.position < len(s.input) && (isDigit(s.input[s.position]) || s.input[s.position] == '.') {
		s.position++
	}

	literal := s.input[start:s.position]
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Token{}, newParseError(ErrInvalidNumber, start, literal,
			fmt.Sprintf("invalid number literal %q", literal))
	}

	return Token{Type: TokenNumber, Value: literal, Number: value, Position: start}, nil
}

// Tokenize returns all tokens of input including the trailing TokenEOF
func Tokenize(input string, policy CharacterPolicy) ([]Token, error) {
	scanner := NewScanner(input, policy)

	var tokens []Token
	for {
		tok, err := scanner.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isOperator(ch byte) bool {
	return ch == '+' || ch == '-' || ch == '*' || ch == '/'
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
