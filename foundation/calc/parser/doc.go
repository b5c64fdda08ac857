// File: doc.go
// Title: Calculator Parser Package Documentation
// Description: Scanner and shunting-yard parser for arithmetic expressions.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

/*
Package parser converts arithmetic expression strings into expression trees.

The grammar is limited to non-negative decimal literals, the binary operators
+ - * / and parentheses. There is no unary minus, no implicit multiplication,
no exponent notation and no identifiers.

  • Scanner - left-to-right byte scanner producing number, operator and
    parenthesis tokens. Whitespace is always skipped; other characters are
    skipped (CharacterLenient, default) or rejected (CharacterStrict).
  • Parser  - two-stack shunting-yard parser. * and / bind tighter than
    + and -, equal precedence groups left to right.

Every failure is a *ParseError whose Kind is one of the exported sentinel
errors, so callers can use errors.Is(err, parser.ErrMissingOperand).
A Parser keeps no state between calls and is safe for concurrent use.
*/
package parser
