// Package log provides structured logging for the calculator.
//
// Package: log
// Title: Structured Logging
// Description: Leveled logger with persistent context fields, JSON and text
//              formatters, error-aware logging of *mdwerror.Error values and
//              a timer for operation durations. Loggers are immutable: the
//              With* methods return clones, so a logger can be shared across
//              goroutines.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2025-03-02 v0.2.0: Dropped async buffering and console/logfmt formatters
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText, Name: "calc"})
//	logger.Info("expression evaluated", log.Fields{"expression": "2+3*4", "result": 14.0})
//
//	timer := logger.StartTimer("calc.Evaluate")
//	defer timer.Stop()
package log
