// File: error_test.go
// Title: Core Error Tests
// Description: Unit tests for error construction, wrapping, codes and severity.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("test error")

	if err.Error() != "test error" {
		t.Errorf("Expected message 'test error', got '%s'", err.Error())
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Expected code %s, got %s", CodeUnknown, err.Code())
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Expected severity %s, got %s", SeverityMedium, err.Severity())
	}
	if len(err.StackTrace()) == 0 {
		t.Error("Expected stack trace to be captured")
	}
	if !strings.Contains(err.StackTrace()[0].Function, "TestNew") {
		t.Errorf("Expected first frame to be the caller, got %s", err.StackTrace()[0].Function)
	}
}

func TestWithCodeDerivesSeverity(t *testing.T) {
	tests := []struct {
		code     Code
		severity Severity
	}{
		{CodeMissingOperand, SeverityLow},
		{CodeDivisionByZero, SeverityLow},
		{CodeDatabaseError, SeverityHigh},
		{CodeInternal, SeverityCritical},
		{CodeUnknown, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.severity {
				t.Errorf("Expected severity %s, got %s", tt.severity, err.Severity())
			}
		})
	}
}

func TestSeverityShouldAlert(t *testing.T) {
	if SeverityLow.ShouldAlert() || SeverityMedium.ShouldAlert() {
		t.Error("Low and medium severities must not alert")
	}
	if !SeverityHigh.ShouldAlert() || !SeverityCritical.ShouldAlert() {
		t.Error("High and critical severities must alert")
	}
}

func TestExplicitSeverityIsKept(t *testing.T) {
	err := New("x").WithSeverity(SeverityCritical).WithCode(CodeMissingOperand)
	if err.Severity() != SeverityCritical {
		t.Errorf("Expected explicit severity to survive WithCode, got %s", err.Severity())
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "nothing") != nil {
		t.Error("Expected Wrap(nil) to return nil")
	}

	base := errors.New("boom")
	wrapped := Wrap(base, "context")
	if wrapped.Error() != "context: boom" {
		t.Errorf("Unexpected message: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("Expected errors.Is to find the cause")
	}

	inner := New("inner").WithCode(CodeUnbalancedParens).WithDetail("position", 3)
	outer := Wrap(inner, "outer")
	if outer.Code() != CodeUnbalancedParens {
		t.Errorf("Expected inherited code, got %s", outer.Code())
	}
	if outer.Details()["position"] != 3 {
		t.Errorf("Expected inherited detail, got %v", outer.Details())
	}
	if outer.RootCause() != inner {
		t.Error("Expected root cause to be the inner error")
	}
}

func TestWrapTruncatesDeepChains(t *testing.T) {
	var err error = errors.New("root")
	for i := 0; i < MaxErrorChainDepth+2; i++ {
		err = Wrap(err, fmt.Sprintf("level %d", i))
	}

	mdwErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if chainDepth(mdwErr) > MaxErrorChainDepth {
		t.Errorf("Expected chain depth <= %d, got %d", MaxErrorChainDepth, chainDepth(mdwErr))
	}
}

func TestHasCodeThroughStandardWrapping(t *testing.T) {
	inner := New("bad").WithCode(CodeInvalidNumber)
	err := fmt.Errorf("request failed: %w", inner)

	if !HasCode(err, CodeInvalidNumber) {
		t.Error("Expected HasCode to see through fmt.Errorf wrapping")
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("Expected CodeUnknown for plain errors")
	}
	if GetSeverity(err) != SeverityLow {
		t.Errorf("Expected low severity, got %s", GetSeverity(err))
	}
}

func TestCodeCategory(t *testing.T) {
	tests := []struct {
		code     Code
		category string
		status   int
	}{
		{CodeInvalidNumber, "lexical", 400},
		{CodeMalformedExpression, "structural", 400},
		{CodeDivisionByZero, "arithmetic", 400},
		{CodeDatabaseError, "database", 503},
		{CodeNotFound, "generic", 404},
		{CodeInternal, "generic", 500},
		{CodeUnavailable, "generic", 503},
	}

	for _, tt := range tests {
		if got := tt.code.Category(); got != tt.category {
			t.Errorf("%s: expected category %s, got %s", tt.code, tt.category, got)
		}
		if got := tt.code.HTTPStatus(); got != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.code, tt.status, got)
		}
		if !tt.code.IsValid() {
			t.Errorf("%s: expected code to be valid", tt.code)
		}
	}

	if Code("NOPE").IsValid() {
		t.Error("Expected unknown code to be invalid")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("cause"), "msg").
		WithCode(CodeDivisionByZero).
		WithOperation("calc.Evaluate").
		WithRequestID("req-1")

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal failed: %v", marshalErr)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["code"] != string(CodeDivisionByZero) {
		t.Errorf("Expected code in JSON, got %v", decoded["code"])
	}
	if decoded["operation"] != "calc.Evaluate" {
		t.Errorf("Expected operation in JSON, got %v", decoded["operation"])
	}
	if decoded["cause"] != "cause" {
		t.Errorf("Expected cause in JSON, got %v", decoded["cause"])
	}
}

func TestString(t *testing.T) {
	s := New("msg").WithCode(CodeSyntax).WithDetail("b", 2).WithDetail("a", 1).String()
	if !strings.Contains(s, "Details: {a=1, b=2}") {
		t.Errorf("Expected sorted details, got:\n%s", s)
	}
}
