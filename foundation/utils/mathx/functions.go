// File: functions.go
// Title: Calculator Functions
// Description: Unary functions in degrees, logarithms, exponential,
//              arbitrary-precision factorial and modulo.
// Author: msto63
// Version: v0.3.0
// Created: 2025-03-04
// Modified: 2025-03-04
//
// Change History:
// - 2025-03-04 v0.3.0: Initial implementation

package mathx

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInput is returned when the operand is not a number
	ErrInvalidInput = errors.New("invalid input")

	// ErrNonPositiveInput is returned by logarithms for x <= 0
	ErrNonPositiveInput = errors.New("invalid input (x <= 0)")

	// ErrNegativeInput is returned by factorial for n < 0
	ErrNegativeInput = errors.New("negative input")

	// ErrModuloByZero is returned for a % 0
	ErrModuloByZero = errors.New("modulo by zero")

	// ErrUnknownFunction is returned by Apply for names not in the registry
	ErrUnknownFunction = errors.New("unknown function")
)

// MaxFactorial bounds factorial input so a single key press cannot stall
// the display
const MaxFactorial = 10000

// Function names as shown on the keypad
const (
	FuncSin = "sin"
	FuncCos = "cos"
	FuncTan = "tan"
	FuncAbs = "abs"
	FuncLog = "log"
	FuncLn  = "ln"
	FuncExp = "exp"
)

// UnaryFunc maps one value to another
type UnaryFunc func(x float64) (float64, error)

var functions = map[string]UnaryFunc{
	FuncSin: Sin,
	FuncCos: Cos,
	FuncTan: Tan,
	FuncAbs: Abs,
	FuncLog: Log10,
	FuncLn:  Ln,
	FuncExp: Exp,
}

// Apply runs the named function on x
func Apply(name string, x float64) (float64, error) {
	fn, ok := functions[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return fn(x)
}

// ApplyString parses text as a number and runs the named function on it
func ApplyString(name, text string) (float64, error) {
	x, err := ParseOperand(text)
	if err != nil {
		return 0, err
	}
	return Apply(name, x)
}

// IsFunction reports whether name is a known unary function
func IsFunction(name string) bool {
	_, ok := functions[strings.ToLower(name)]
	return ok
}

// FunctionNames returns the registered function names in sorted order
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseOperand parses the display text as a single number
func ParseOperand(text string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, text)
	}
	return x, nil
}

// Sin returns the sine of deg degrees
func Sin(deg float64) (float64, error) {
	return math.Sin(toRadians(deg)), nil
}

// Cos returns the cosine of deg degrees
func Cos(deg float64) (float64, error) {
	return math.Cos(toRadians(deg)), nil
}

// Tan returns the tangent of deg degrees
func Tan(deg float64) (float64, error) {
	return math.Tan(toRadians(deg)), nil
}

// Abs returns |x|
func Abs(x float64) (float64, error) {
	return math.Abs(x), nil
}

// Log10 returns the base 10 logarithm of x
func Log10(x float64) (float64, error) {
	if x <= 0 {
		return 0, ErrNonPositiveInput
	}
	return math.Log10(x), nil
}

// Ln returns the natural logarithm of x
func Ln(x float64) (float64, error) {
	if x <= 0 {
		return 0, ErrNonPositiveInput
	}
	return math.Log(x), nil
}

// Exp returns e**x
func Exp(x float64) (float64, error) {
	return math.Exp(x), nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Factorial returns n! with arbitrary precision
func Factorial(n int64) (*big.Int, error) {
	if n < 0 {
		return nil, ErrNegativeInput
	}
	if n > MaxFactorial {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidInput, n, MaxFactorial)
	}
	return new(big.Int).MulRange(1, n), nil
}

// FactorialString parses text as an integer and returns its factorial in
// decimal notation
func FactorialString(text string) (string, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, text)
	}
	result, err := Factorial(n)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// Mod returns the remainder of a / b with the sign of a
func Mod(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrModuloByZero
	}
	return math.Mod(a, b), nil
}

// HasModulo reports whether text is a modulo entry
func HasModulo(text string) bool {
	return strings.Contains(text, "%")
}

// EvaluateModulo evaluates "a%b" where a and b are plain numbers
func EvaluateModulo(text string) (float64, error) {
	parts := strings.Split(text, "%")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, text)
	}
	a, err := ParseOperand(parts[0])
	if err != nil {
		return 0, err
	}
	b, err := ParseOperand(parts[1])
	if err != nil {
		return 0, err
	}
	return Mod(a, b)
}
