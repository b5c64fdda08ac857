// ============================================================================
// Calculator - Expression Evaluation Toolkit
// ============================================================================
//
// Package:     logging
// Description: Logger factory for the calculator binaries
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	mdwlog "github.com/patelanuj7/calculatorapp/foundation/core/log"
)

// Level represents log severity (for compatibility)
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// foundation maps the compatibility level onto the foundation logger level
func (l Level) foundation() mdwlog.Level {
	switch l {
	case LevelDebug:
		return mdwlog.LevelDebug
	case LevelWarn:
		return mdwlog.LevelWarn
	case LevelError:
		return mdwlog.LevelError
	default:
		return mdwlog.LevelInfo
	}
}
