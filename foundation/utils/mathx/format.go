// File: format.go
// Title: Display Formatting
// Description: Fixed-precision result formatting and display texts for
//              failures.
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
	"strconv"
	"strings"
)

// DisplayPrecision is the number of decimal places shown for results
const DisplayPrecision = 5

// Display texts
const (
	ErrorText            = "Error"
	InvalidInputText     = "Error: Invalid input"
	NonPositiveInputText = "Error: Invalid input (x <= 0)"
	NegativeInputText    = "Error: Negative input"
)

// FormatResult renders v with DisplayPrecision decimal places
func FormatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', DisplayPrecision, 64)
}

// DisplayError returns the display text for err. Function key failures
// have their own texts, every other failure shows as ErrorText.
func DisplayError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNonPositiveInput):
		return NonPositiveInputText
	case errors.Is(err, ErrNegativeInput):
		return NegativeInputText
	case errors.Is(err, ErrInvalidInput):
		return InvalidInputText
	default:
		return ErrorText
	}
}

// IsErrorText reports whether the display currently shows a failure
func IsErrorText(text string) bool {
	return strings.HasPrefix(text, ErrorText)
}
