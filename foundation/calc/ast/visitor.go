// File: visitor.go
// Title: Expression Tree Visitors
// Description: Visitor interface plus helpers that walk a tree: postfix
//              rendering, node counting and depth measurement.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package ast

import (
	"strings"
)

// Visitor interface for traversing expression trees
type Visitor interface {
	VisitLeaf(leaf *Leaf) interface{}
	VisitBinaryOp(op *BinaryOp) interface{}
}

// postfixVisitor renders a tree in reverse Polish notation
type postfixVisitor struct {
	tokens []string
}

func (v *postfixVisitor) VisitLeaf(leaf *Leaf) interface{} {
	v.tokens = append(v.tokens, leaf.String())
	return nil
}

func (v *postfixVisitor) VisitBinaryOp(op *BinaryOp) interface{} {
	op.Left.Accept(v)
	op.Right.Accept(v)
	v.tokens = append(v.tokens, op.Op.String())
	return nil
}

// Postfix returns the tree in reverse Polish notation, e.g. "2 3 4 * +"
func Postfix(n Node) string {
	v := &postfixVisitor{}
	n.Accept(v)
	return strings.Join(v.tokens, " ")
}

// statsVisitor returns the depth of the visited subtree and counts nodes
type statsVisitor struct {
	leaves    int
	operators int
}

func (v *statsVisitor) VisitLeaf(leaf *Leaf) interface{} {
	v.leaves++
	return 1
}

func (v *statsVisitor) VisitBinaryOp(op *BinaryOp) interface{} {
	v.operators++
	left := op.Left.Accept(v).(int)
	right := op.Right.Accept(v).(int)
	if left > right {
		return left + 1
	}
	return right + 1
}

// Stats describes the shape of a tree
type Stats struct {
	Leaves    int
	Operators int
	Depth     int
}

// Measure walks the tree once and returns its Stats
func Measure(n Node) Stats {
	v := &statsVisitor{}
	depth := n.Accept(v).(int)
	return Stats{Leaves: v.leaves, Operators: v.operators, Depth: depth}
}
