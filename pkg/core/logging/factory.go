// ============================================================================
// Calculator - Expression Evaluation Toolkit
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	mdwlog "github.com/patelanuj7/calculatorapp/foundation/core/log"
)

var (
	baseMu     sync.RWMutex
	baseConfig = DefaultLoggerConfig("calc")
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format
	Format string // "json" or "text" (default: text)

	// Primary output (default: stderr, stdout stays free for results)
	Output io.Writer

	// Additional outputs (e.g. a log file)
	AdditionalOutputs []io.Writer

	// Record caller information
	EnableCaller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// NewLogger creates a new Foundation logger
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	format := mdwlog.FormatText
	if strings.EqualFold(cfg.Format, "json") {
		format = mdwlog.FormatJSON
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:        parseLevel(cfg.Level),
		Format:       format,
		Output:       output,
		Name:         cfg.ServiceName,
		EnableCaller: cfg.EnableCaller,
	})
}

// Configure sets the base configuration used by New and installs a logger
// built from it as the foundation default
func Configure(cfg LoggerConfig) *mdwlog.Logger {
	baseMu.Lock()
	baseConfig = cfg
	baseMu.Unlock()

	logger := NewLogger(cfg)
	mdwlog.SetDefault(logger)
	return logger
}

// NewServiceLogger creates a logger for a named component using the base
// configuration
func NewServiceLogger(serviceName string) *mdwlog.Logger {
	baseMu.RLock()
	cfg := baseConfig
	baseMu.RUnlock()

	cfg.ServiceName = serviceName
	return NewLogger(cfg)
}

// parseLevel converts a string level to mdwlog.Level
func parseLevel(level string) mdwlog.Level {
	parsed, err := mdwlog.ParseLevel(level)
	if err != nil {
		return mdwlog.LevelInfo
	}
	return parsed
}

// Compatibility layer for key/value style logging

// Logger wraps the Foundation logger with key/value methods
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a key/value logger from the base configuration
func New(name string) *Logger {
	return &Logger{
		Logger: NewServiceLogger(name),
		name:   name,
	}
}

// Wrap adapts an existing Foundation logger
func Wrap(logger *mdwlog.Logger, name string) *Logger {
	if logger == nil {
		logger = mdwlog.NewNop()
	}
	return &Logger{
		Logger: logger.WithName(name),
		name:   name,
	}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a new logger with the specified level (compatibility)
func (l *Logger) WithLevel(level Level) *Logger {
	return &Logger{
		Logger: l.Logger.WithLevel(level.foundation()),
		name:   l.name,
	}
}

// WithRequestID returns a logger that tags every entry with requestID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.WithRequestID(requestID),
		name:   l.name,
	}
}

// Debug logs a debug message (compatibility with key-value pairs)
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message (compatibility with key-value pairs)
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message (compatibility with key-value pairs)
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message (compatibility with key-value pairs)
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// ErrorWithErr logs an error message carrying err (compatibility with key-value pairs)
func (l *Logger) ErrorWithErr(msg string, err error, keysAndValues ...interface{}) {
	l.Logger.ErrorWithErr(msg, err, toFields(keysAndValues...))
}

// WarnWithErr logs a warning carrying err (compatibility with key-value pairs)
func (l *Logger) WarnWithErr(msg string, err error, keysAndValues ...interface{}) {
	l.Logger.WarnWithErr(msg, err, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
