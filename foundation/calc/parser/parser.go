// File: parser.go
// Title: Shunting-Yard Expression Parser
// Description: Builds an expression tree from a token stream using an
//              operator stack and an operand stack. Reduction pops one
//              operator and two operands (right first) and pushes the
//              combined node.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package parser

import (
	"fmt"

	mdwast "github.com/patelanuj7/calculatorapp/foundation/calc/ast"
	mdwlog "github.com/patelanuj7/calculatorapp/foundation/core/log"
)

// DefaultMaxInputLength is used when Options.MaxInputLength is zero
const DefaultMaxInputLength = 4096

// MaxAllowedInputLength bounds Options.MaxInputLength. Tree depth grows with
// the input and evaluation recurses once per level.
const MaxAllowedInputLength = 1 << 20

// leftParen marks an open parenthesis on the operator stack. Its precedence
// is 0, so it never triggers a reduction.
const leftParen = mdwast.Operator('(')

// Parser implements shunting-yard parsing for arithmetic expressions
type Parser struct {
	logger  *mdwlog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger          *mdwlog.Logger
	MaxInputLength  int
	CharacterPolicy CharacterPolicy
}

// New creates a new parser with the given options
func New(opts Options) (*Parser, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxInputLength < 0 {
		return nil, fmt.Errorf("max input length must not be negative: %d", opts.MaxInputLength)
	}
	if opts.MaxInputLength > MaxAllowedInputLength {
		return nil, fmt.Errorf("max input length exceeds %d: %d", MaxAllowedInputLength, opts.MaxInputLength)
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	if opts.CharacterPolicy != CharacterLenient && opts.CharacterPolicy != CharacterStrict {
		return nil, fmt.Errorf("unknown character policy %d", opts.CharacterPolicy)
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "calc-parser"),
		options: opts,
	}, nil
}

// Options returns the effective options of the parser
func (p *Parser) Options() Options {
	return p.options
}

// Parse parses an expression and returns the root of its tree
func (p *Parser) Parse(input string) (mdwast.Node, error) {
	if len(input) > p.options.MaxInputLength {
		return nil, newParseError(ErrInputTooLong, p.options.MaxInputLength, "",
			fmt.Sprintf("input exceeds maximum length: %d > %d", len(input), p.options.MaxInputLength))
	}

	p.logger.Debug("Starting expression parsing", mdwlog.Fields{
		"input":  input,
		"length": len(input),
	})

	root, err := p.parse(input)
	if err != nil {
		p.logger.WarnWithErr("Expression parsing failed", err, mdwlog.Fields{
			"input": input,
		})
		return nil, err
	}

	if p.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		p.logger.Debug("Expression parsing completed successfully", mdwlog.Fields{
			"input":   input,
			"postfix": mdwast.Postfix(root),
		})
	}

	return root, nil
}

type stackedOperator struct {
	op       mdwast.Operator
	position int
}

// parseState holds the two stacks of a single Parse call
type parseState struct {
	operators []stackedOperator
	operands  []mdwast.Node
}

func (p *Parser) parse(input string) (mdwast.Node, error) {
	scanner := NewScanner(input, p.options.CharacterPolicy)
	state := &parseState{}

	for {
		tok, err := scanner.Next()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case TokenEOF:
			return state.finish(len(input))

		case TokenNumber:
			state.operands = append(state.operands, mdwast.NewLeaf(tok.Number, mdwast.Position{Offset: tok.Position}))

		case TokenLeftParen:
			state.operators = append(state.operators, stackedOperator{op: leftParen, position: tok.Position})

		case TokenRightParen:
			if err := state.closeParen(tok.Position); err != nil {
				return nil, err
			}

		case TokenOperator:
			if err := state.pushOperator(tok.Operator, tok.Position); err != nil {
				return nil, err
			}
		}
	}
}

// closeParen reduces until the matching '(' and discards it
func (s *parseState) closeParen(position int) error {
	for len(s.operators) > 0 && s.top().op != leftParen {
		if err := s.reduce(); err != nil {
			return err
		}
	}
	if len(s.operators) == 0 {
		return newParseError(ErrUnbalancedParens, position, ")", "unmatched ')'")
	}
	s.operators = s.operators[:len(s.operators)-1]
	return nil
}

// pushOperator reduces while the stack top binds at least as tightly, then
// pushes op. The >= makes equal precedence left-associative.
func (s *parseState) pushOperator(op mdwast.Operator, position int) error {
	for len(s.operators) > 0 && s.top().op != leftParen && s.top().op.Precedence() >= op.Precedence() {
		if err := s.reduce(); err != nil {
			return err
		}
	}
	s.operators = append(s.operators, stackedOperator{op: op, position: position})
	return nil
}

// finish drains the operator stack and checks that exactly one tree remains
func (s *parseState) finish(end int) (mdwast.Node, error) {
	for len(s.operators) > 0 {
		if top := s.top(); top.op == leftParen {
			return nil, newParseError(ErrUnbalancedParens, top.position, "(", "unmatched '('")
		}
		if err := s.reduce(); err != nil {
			return nil, err
		}
	}

	switch len(s.operands) {
	case 1:
		return s.operands[0], nil
	case 0:
		return nil, newParseError(ErrMalformedExpression, end, "", "expression contains no operand")
	default:
		extra := s.operands[1]
		return nil, newParseError(ErrMalformedExpression, extra.Position().Offset, extra.String(),
			fmt.Sprintf("%d operands left without operator", len(s.operands)))
	}
}

// reduce pops one operator and two operands (right first) and pushes the
// combined node
func (s *parseState) reduce() error {
	top := s.top()
	s.operators = s.operators[:len(s.operators)-1]

	if len(s.operands) < 2 {
		return newParseError(ErrMissingOperand, top.position, top.op.String(),
			fmt.Sprintf("operator '%s' is missing an operand", top.op))
	}

	n := len(s.operands)
	right := s.operands[n-1]
	left := s.operands[n-2]
	s.operands = s.operands[:n-2]
	s.operands = append(s.operands, mdwast.NewBinaryOp(top.op, left, right, mdwast.Position{Offset: top.position}))
	return nil
}

func (s *parseState) top() stackedOperator {
	return s.operators[len(s.operators)-1]
}
