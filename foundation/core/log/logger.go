// File: logger.go
// Title: Core Logger Implementation
// Description: Implements the main Logger type that provides structured logging
//              with contextual information, JSON or text output and
//              integration with the error package.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2025-03-02 v0.2.0: Synchronous writes only, shared output lock

package log

import (
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
)

// Logger represents a structured logger with contextual information
type Logger struct {
	level     Level
	formatter Formatter
	output    io.Writer
	name      string

	contextFields Fields
	requestID     string

	enableCaller     bool
	callerSkipFrames int

	// outMu is shared by all clones writing to the same output
	outMu *sync.Mutex
	mutex sync.RWMutex
}

// Config represents logger configuration
type Config struct {
	Level            Level
	Format           Format
	Output           io.Writer
	Name             string
	EnableCaller     bool
	CallerSkipFrames int
}

// New creates a new logger with default configuration
func New() *Logger {
	return &Logger{
		level:         DefaultLevel(),
		formatter:     NewJSONFormatter(),
		output:        os.Stdout,
		contextFields: make(Fields),
		outMu:         &sync.Mutex{},
	}
}

// NewWithConfig creates a new logger with the specified configuration
func NewWithConfig(config Config) *Logger {
	logger := &Logger{
		level:            config.Level,
		formatter:        GetFormatter(config.Format),
		output:           config.Output,
		name:             config.Name,
		contextFields:    make(Fields),
		enableCaller:     config.EnableCaller,
		callerSkipFrames: config.CallerSkipFrames,
		outMu:            &sync.Mutex{},
	}

	if config.Output == nil {
		logger.output = os.Stdout
	}

	return logger
}

// NewNop creates a logger that discards everything
func NewNop() *Logger {
	return NewWithConfig(Config{Level: LevelFatal + 1, Output: io.Discard})
}

// WithLevel returns a clone with the given minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	clone := l.clone()
	clone.level = level
	return clone
}

// WithName returns a clone with the given logger name
func (l *Logger) WithName(name string) *Logger {
	clone := l.clone()
	clone.name = name
	return clone
}

// WithField adds a persistent field to all log entries
func (l *Logger) WithField(key string, value interface{}) *Logger {
	clone := l.clone()
	clone.contextFields[key] = value
	return clone
}

// WithRequestID sets the request ID context
func (l *Logger) WithRequestID(requestID string) *Logger {
	clone := l.clone()
	clone.requestID = requestID
	return clone
}

// Debug logs a debug level message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, fields...)
}

// Info logs an info level message
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, fields...)
}

// Warn logs a warning level message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, fields...)
}

// Error logs an error level message
func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, fields...)
}

// ErrorWithErr logs an error with an error object
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, fields...)
}

// WarnWithErr logs a warning with an error object
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, fields...)
}

// LogError logs err at a level derived from its severity. Rejected
// expressions (low severity) are logged at info; high and critical
// failures carry alert=true.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}

	code := mdwerror.GetCode(err)
	severity := mdwerror.GetSeverity(err)
	fields := Fields{
		"error_code":     code,
		"error_severity": severity.String(),
	}
	if severity.ShouldAlert() {
		fields["alert"] = true
	}

	switch severity {
	case mdwerror.SeverityLow:
		l.log(LevelInfo, err.Error(), err, fields)
	case mdwerror.SeverityMedium:
		l.log(LevelWarn, err.Error(), err, fields)
	default:
		l.log(LevelError, err.Error(), err, fields)
	}
}

// StartTimer creates and starts a new performance timer
func (l *Logger) StartTimer(operation string) *Timer {
	return NewTimer(l, operation)
}

// IsLevelEnabled returns true if the given level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return level.ShouldLog(l.level)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.level
}

// SetLevel changes the log level in place
func (l *Logger) SetLevel(level Level) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.level = level
}

func (l *Logger) log(level Level, message string, err error, fields ...Fields) {
	l.mutex.RLock()

	if !level.ShouldLog(l.level) {
		l.mutex.RUnlock()
		return
	}

	entry := NewEntry(level, message)
	entry.Logger = l.name
	entry.RequestID = l.requestID
	entry.Error = err

	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	for _, fieldSet := range fields {
		for k, v := range fieldSet {
			entry.Fields[k] = v
		}
	}

	if l.enableCaller {
		if function, file, line, ok := l.getCaller(); ok {
			entry.Caller = &CallerInfo{Function: function, File: file, Line: line}
		}
	}

	formatter := l.formatter
	output := l.output
	outMu := l.outMu
	l.mutex.RUnlock()

	formatted, formatErr := formatter.Format(entry)
	if formatErr != nil {
		return
	}

	outMu.Lock()
	output.Write(formatted)
	outMu.Unlock()
}

func (l *Logger) getCaller() (function, file string, line int, ok bool) {
	// getCaller, log, public method, user code
	skip := 3 + l.callerSkipFrames

	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "", "", 0, false
	}

	function = "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
		if idx := strings.LastIndex(function, "."); idx != -1 {
			function = function[idx+1:]
		}
	}

	if idx := strings.LastIndex(file, "/"); idx != -1 {
		file = file[idx+1:]
	}

	return function, file, line, true
}

func (l *Logger) clone() *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	clone := &Logger{
		level:            l.level,
		formatter:        l.formatter,
		output:           l.output,
		name:             l.name,
		requestID:        l.requestID,
		enableCaller:     l.enableCaller,
		callerSkipFrames: l.callerSkipFrames,
		contextFields:    make(Fields, len(l.contextFields)),
		outMu:            l.outMu,
	}

	for k, v := range l.contextFields {
		clone.contextFields[k] = v
	}

	return clone
}

var (
	defaultLogger   = New()
	defaultLoggerMu sync.RWMutex
)

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// Debug logs a debug message using the default logger
func Debug(message string, fields ...Fields) {
	GetDefault().Debug(message, fields...)
}

// Info logs an info message using the default logger
func Info(message string, fields ...Fields) {
	GetDefault().Info(message, fields...)
}

// Warn logs a warning message using the default logger
func Warn(message string, fields ...Fields) {
	GetDefault().Warn(message, fields...)
}

// Error logs an error message using the default logger
func Error(message string, fields ...Fields) {
	GetDefault().Error(message, fields...)
}
