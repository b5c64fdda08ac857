package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status represents the health status of a service
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Checker is an interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// CheckFunc is a function type that implements Checker
type CheckFunc func(ctx context.Context) CheckResult

// Check implements the Checker interface
func (f CheckFunc) Check(ctx context.Context) CheckResult {
	return f(ctx)
}

// Name returns a default name
func (f CheckFunc) Name() string {
	return "unknown"
}

// NamedCheckFunc wraps a check function with a name
type NamedCheckFunc struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &NamedCheckFunc{name: name, fn: fn}
}

// Name returns the checker name
func (c *NamedCheckFunc) Name() string {
	return c.name
}

// Check runs the health check
func (c *NamedCheckFunc) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// Registry manages multiple health checkers
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
	startAt  time.Time
}

// NewRegistry creates a new health check registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
		startAt:  time.Now(),
	}
}

// Register adds a checker to the registry
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Check runs all health checks and returns the overall status
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Uptime:    time.Since(r.startAt),
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, 0, len(r.checkers)),
	}

	var wg sync.WaitGroup
	results := make(chan CheckResult, len(r.checkers))

	for _, checker := range r.checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()
			if result.Name == "" {
				result.Name = c.Name()
			}
			results <- result
		}(checker)
	}

	// Wait for all checks to complete
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	overallStatus := StatusHealthy
	for result := range results {
		report.Checks = append(report.Checks, result)
		switch result.Status {
		case StatusUnhealthy:
			overallStatus = StatusUnhealthy
		case StatusDegraded:
			if overallStatus != StatusUnhealthy {
				overallStatus = StatusDegraded
			}
		}
	}

	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})

	report.Status = overallStatus
	return report
}

// Report represents the overall health report
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// String returns a string representation of the report
func (r *Report) String() string {
	return fmt.Sprintf("Service: %s, Status: %s, Uptime: %v, Checks: %d",
		r.Service, r.Status, r.Uptime, len(r.Checks))
}

// HTTPStatus maps the overall status to an HTTP status code. Degraded
// services still answer requests.
func (r *Report) HTTPStatus() int {
	if r.Status == StatusUnhealthy || r.Status == StatusUnknown {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// Handler serves the registry as JSON, bounded by timeout
func Handler(registry *Registry, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		report := registry.Check(ctx)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(report.HTTPStatus())
		_ = json.NewEncoder(w).Encode(report)
	})
}

// Common health checks

// TCPCheck creates a TCP connectivity check
func TCPCheck(name, address string, timeout time.Duration) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Details: map[string]interface{}{"address": address},
		}

		dialer := net.Dialer{Timeout: timeout}
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		conn.Close()

		result.Message = "TCP check passed"
		return result
	})
}

// PingCheck creates a check from a ping function, e.g. a database ping
func PingCheck(name string, ping func(ctx context.Context) error) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		if err := ping(ctx); err != nil {
			return CheckResult{Name: name, Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Name: name, Status: StatusHealthy, Message: "ping ok"}
	})
}

// ExpressionCheck evaluates a known expression and compares the result. A wrong
// result degrades the service, a failure makes it unhealthy.
func ExpressionCheck(name, expression string, want float64, eval func(string) (float64, error)) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Details: map[string]interface{}{"expression": expression},
		}

		got, err := eval(expression)
		switch {
		case err != nil:
			result.Status = StatusUnhealthy
			result.Message = err.Error()
		case got != want:
			result.Status = StatusDegraded
			result.Message = fmt.Sprintf("unexpected result %v, want %v", got, want)
		default:
			result.Message = "check passed"
		}
		return result
	})
}
