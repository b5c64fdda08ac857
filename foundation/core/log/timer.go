// File: timer.go
// Title: Performance Timer
// Description: Measures operation durations and logs them on completion.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02

package log

import (
	"time"
)

// Timer represents a performance timer for measuring operation duration
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer creates a new timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the log level for the timer completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Stop stops the timer and logs the elapsed time. Stopping twice returns 0.
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}

	elapsed := t.Elapsed()
	t.stopped = true

	if t.logger != nil {
		t.logger.log(t.level, t.operation+" completed", nil, t.completionFields(elapsed))
	}

	return elapsed
}

func (t *Timer) completionFields(elapsed time.Duration) Fields {
	return t.fields.Merge(Fields{
		"operation":   t.operation,
		"duration_ms": float64(elapsed.Nanoseconds()) / 1000000,
	})
}
