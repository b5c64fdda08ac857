// File: nodes.go
// Title: Expression Tree Node Definitions
// Description: Defines the Leaf and BinaryOp node types, the Operator type
//              with its precedence table, and string/postfix renderings.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package ast

import (
	"fmt"
	"strconv"
)

// Node represents the base interface for all expression tree nodes
type Node interface {
	// String returns a fully parenthesized infix representation
	String() string

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	// Position returns the source position of the node
	Position() Position

	// Validate checks the structural invariants of the node and its subtree
	Validate() error

	node() // marker method
}

// Position is the byte offset (0-based) of the token that produced a node
type Position struct {
	Offset int
}

// Operator is one of the four binary arithmetic operators
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

// IsValid reports whether the operator is one of + - * /
func (op Operator) IsValid() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Precedence returns the binding strength: 2 for * and /, 1 for + and -,
// 0 for anything else (including the parenthesis marker on the parser stack)
func (op Operator) Precedence() int {
	switch op {
	case OpMul, OpDiv:
		return 2
	case OpAdd, OpSub:
		return 1
	default:
		return 0
	}
}

// String returns the operator symbol
func (op Operator) String() string {
	return string(rune(op))
}

// Leaf is a numeric literal
type Leaf struct {
	Value float64
	Pos   Position
}

// BinaryOp applies Op to the results of Left and Right
type BinaryOp struct {
	Op    Operator
	Left  Node
	Right Node
	Pos   Position
}

// NewLeaf creates a numeric leaf
func NewLeaf(value float64, pos Position) *Leaf {
	return &Leaf{Value: value, Pos: pos}
}

// NewBinaryOp creates an operator node owning both children
func NewBinaryOp(op Operator, left, right Node, pos Position) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right, Pos: pos}
}

func (l *Leaf) node()     {}
func (b *BinaryOp) node() {}

// String returns the shortest decimal representation of the value
func (l *Leaf) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64)
}

// String returns "(left op right)"
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", nodeString(b.Left), b.Op, nodeString(b.Right))
}

// Accept implements Node
func (l *Leaf) Accept(visitor Visitor) interface{} {
	return visitor.VisitLeaf(l)
}

// Accept implements Node
func (b *BinaryOp) Accept(visitor Visitor) interface{} {
	return visitor.VisitBinaryOp(b)
}

// Position implements Node
func (l *Leaf) Position() Position { return l.Pos }

// Position implements Node
func (b *BinaryOp) Position() Position { return b.Pos }

// Validate implements Node. A leaf is always valid.
func (l *Leaf) Validate() error {
	return nil
}

// Validate checks that the operator is known and both children are present
// and valid
func (b *BinaryOp) Validate() error {
	if !b.Op.IsValid() {
		return fmt.Errorf("invalid operator %q at offset %d", b.Op, b.Pos.Offset)
	}
	if b.Left == nil || b.Right == nil {
		return fmt.Errorf("operator %s at offset %d is missing an operand", b.Op, b.Pos.Offset)
	}
	if err := b.Left.Validate(); err != nil {
		return err
	}
	return b.Right.Validate()
}

func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
