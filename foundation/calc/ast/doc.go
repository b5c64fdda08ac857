// File: doc.go
// Title: Expression Tree Package Documentation
// Description: Binary expression tree produced by the calc parser.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

/*
Package ast defines the expression tree for calculator expressions.

A tree is built from two node kinds:

  • Leaf     - a numeric literal
  • BinaryOp - one of + - * / with exactly two owned child subtrees

Nodes are created complete (a BinaryOp is never built without both children)
and every child belongs to exactly one parent, so a tree has no cycles and no
shared subtrees. Trees are built fresh for every evaluation and not reused.
*/
package ast
