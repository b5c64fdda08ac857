// File: engine.go
// Title: Calculator Engine
// Description: Integrates parser and evaluator, classifies failures with
//              error codes and logs evaluation timing.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02

package calc

import (
	"errors"
	"fmt"
	"sync"
	"time"

	mdwast "github.com/patelanuj7/calculatorapp/foundation/calc/ast"
	mdwevaluator "github.com/patelanuj7/calculatorapp/foundation/calc/evaluator"
	mdwparser "github.com/patelanuj7/calculatorapp/foundation/calc/parser"
	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
	mdwlog "github.com/patelanuj7/calculatorapp/foundation/core/log"
)

// Operation names used in errors and timers
const (
	OperationEvaluate = "calc.Evaluate"
	OperationParse    = "calc.Parse"
)

// Engine parses and evaluates expressions
type Engine struct {
	parser    *mdwparser.Parser
	evaluator *mdwevaluator.Evaluator
	logger    *mdwlog.Logger
	options   Options
}

// Options configures the engine. Parser and Evaluator are built from the
// policy fields when nil.
type Options struct {
	Logger          *mdwlog.Logger
	Parser          *mdwparser.Parser
	Evaluator       *mdwevaluator.Evaluator
	MaxInputLength  int
	CharacterPolicy mdwparser.CharacterPolicy
	DivisionPolicy  mdwevaluator.DivisionPolicy
}

// Result is the detailed outcome of a successful evaluation
type Result struct {
	Expression string
	Value      float64
	Tree       mdwast.Node
	Postfix    string
	Stats      mdwast.Stats
	Duration   time.Duration
}

// New creates a new engine
func New(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	logger := opts.Logger.WithField("component", "calc-engine")

	if opts.Parser == nil {
		p, err := mdwparser.New(mdwparser.Options{
			Logger:          opts.Logger,
			MaxInputLength:  opts.MaxInputLength,
			CharacterPolicy: opts.CharacterPolicy,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize calc parser: %w", err)
		}
		opts.Parser = p
	}

	if opts.Evaluator == nil {
		ev, err := mdwevaluator.New(mdwevaluator.Options{DivisionPolicy: opts.DivisionPolicy})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize calc evaluator: %w", err)
		}
		opts.Evaluator = ev
	}

	logger.Debug("Calc engine initialized", mdwlog.Fields{
		"maxInputLength":  opts.Parser.Options().MaxInputLength,
		"characterPolicy": opts.Parser.Options().CharacterPolicy.String(),
		"divisionPolicy":  opts.Evaluator.Options().DivisionPolicy.String(),
	})

	return &Engine{
		parser:    opts.Parser,
		evaluator: opts.Evaluator,
		logger:    logger,
		options:   opts,
	}, nil
}

// Evaluate parses and evaluates text
func (e *Engine) Evaluate(text string) (float64, error) {
	result, err := e.EvaluateDetailed(text)
	if err != nil {
		return 0, err
	}
	return result.Value, nil
}

// EvaluateDetailed parses and evaluates text and returns the tree next to
// the value
func (e *Engine) EvaluateDetailed(text string) (*Result, error) {
	timer := e.logger.StartTimer(OperationEvaluate).WithField("expression", text)

	tree, err := e.parser.Parse(text)
	if err != nil {
		wrapped := classify(err, text, OperationEvaluate)
		timer.WithField("success", false).Stop()
		e.logger.LogError(wrapped)
		return nil, wrapped
	}

	value, err := e.evaluator.Evaluate(tree)
	if err != nil {
		wrapped := classify(err, text, OperationEvaluate)
		timer.WithField("success", false).Stop()
		e.logger.LogError(wrapped)
		return nil, wrapped
	}

	duration := timer.WithField("success", true).Stop()

	return &Result{
		Expression: text,
		Value:      value,
		Tree:       tree,
		Postfix:    mdwast.Postfix(tree),
		Stats:      mdwast.Measure(tree),
		Duration:   duration,
	}, nil
}

// Parse parses text without evaluating it
func (e *Engine) Parse(text string) (mdwast.Node, error) {
	tree, err := e.parser.Parse(text)
	if err != nil {
		return nil, classify(err, text, OperationParse)
	}
	return tree, nil
}

// Validate checks whether text is a syntactically valid expression
func (e *Engine) Validate(text string) error {
	_, err := e.Parse(text)
	return err
}

// DivisionPolicy returns the division policy in effect
func (e *Engine) DivisionPolicy() mdwevaluator.DivisionPolicy {
	return e.evaluator.Options().DivisionPolicy
}

// CharacterPolicy returns the character policy in effect
func (e *Engine) CharacterPolicy() mdwparser.CharacterPolicy {
	return e.parser.Options().CharacterPolicy
}

// classify wraps a parser or evaluator error into a coded *mdwerror.Error
func classify(err error, text, operation string) *mdwerror.Error {
	code := mdwerror.CodeInternal
	message := "expression could not be evaluated"

	var pe *mdwparser.ParseError
	var ee *mdwevaluator.EvaluationError

	switch {
	case errors.As(err, &pe):
		message = "expression could not be parsed"
		code = parseCode(pe.Kind)
	case errors.As(err, &ee):
		if errors.Is(ee.Kind, mdwevaluator.ErrDivisionByZero) {
			code = mdwerror.CodeDivisionByZero
		}
	}

	wrapped := mdwerror.Wrap(err, message).
		WithCode(code).
		WithOperation(operation).
		WithDetail("expression", text)

	if pe != nil {
		wrapped.WithDetail("position", pe.Position)
	} else if ee != nil {
		wrapped.WithDetail("position", ee.Position)
	}

	return wrapped
}

func parseCode(kind error) mdwerror.Code {
	switch kind {
	case mdwparser.ErrUnbalancedParens:
		return mdwerror.CodeUnbalancedParens
	case mdwparser.ErrMissingOperand:
		return mdwerror.CodeMissingOperand
	case mdwparser.ErrMalformedExpression:
		return mdwerror.CodeMalformedExpression
	case mdwparser.ErrInvalidNumber:
		return mdwerror.CodeInvalidNumber
	case mdwparser.ErrUnexpectedCharacter:
		return mdwerror.CodeUnexpectedCharacter
	case mdwparser.ErrInputTooLong:
		return mdwerror.CodeInputTooLong
	default:
		return mdwerror.CodeSyntax
	}
}

// IsParseError reports whether err is a lexical or structural failure
func IsParseError(err error) bool {
	var pe *mdwparser.ParseError
	return errors.As(err, &pe)
}

// IsEvaluationError reports whether err is an arithmetic failure
func IsEvaluationError(err error) bool {
	var ee *mdwevaluator.EvaluationError
	return errors.As(err, &ee)
}

var (
	defaultEngine     *Engine
	defaultEngineErr  error
	defaultEngineOnce sync.Once
)

// EvaluateExpression evaluates text with the default engine: lenient
// characters, strict division, default input length limit
func EvaluateExpression(text string) (float64, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = New(Options{})
	})
	if defaultEngineErr != nil {
		return 0, defaultEngineErr
	}
	return defaultEngine.Evaluate(text)
}
