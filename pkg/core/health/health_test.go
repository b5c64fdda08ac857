package health

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewChecker(t *testing.T) {
	checker := NewChecker("engine", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "check passed"}
	})

	if checker.Name() != "engine" {
		t.Errorf("Name() = %v, want engine", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
}

func TestCheckFunc_DefaultName(t *testing.T) {
	fn := CheckFunc(func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})

	if fn.Name() != "unknown" {
		t.Errorf("Name() = %v, want unknown", fn.Name())
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("calc", "1.0.0")
			for i, status := range tt.statuses {
				status := status
				registry.Register(NewChecker(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				}))
			}

			report := registry.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("Checks count = %v, want %v", len(report.Checks), len(tt.statuses))
			}
			for i := 1; i < len(report.Checks); i++ {
				if report.Checks[i-1].Name > report.Checks[i].Name {
					t.Errorf("checks not sorted: %v before %v", report.Checks[i-1].Name, report.Checks[i].Name)
				}
			}
			if report.Service != "calc" || report.Version != "1.0.0" {
				t.Errorf("unexpected identity %s %s", report.Service, report.Version)
			}
		})
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("calc", "1.0.0")

	var counter int32
	for i := 0; i < 5; i++ {
		registry.Register(NewChecker("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			atomic.AddInt32(&counter, 1)
			time.Sleep(10 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		}))
	}

	start := time.Now()
	registry.Check(context.Background())

	if atomic.LoadInt32(&counter) != 5 {
		t.Errorf("Counter = %v, want 5", counter)
	}
	if time.Since(start) > 200*time.Millisecond {
		t.Errorf("checks did not run concurrently")
	}
}

func TestPingCheck(t *testing.T) {
	ok := PingCheck("history-db", func(ctx context.Context) error { return nil })
	if got := ok.Check(context.Background()).Status; got != StatusHealthy {
		t.Errorf("Status = %v, want healthy", got)
	}

	failing := PingCheck("history-db", func(ctx context.Context) error { return errors.New("database is locked") })
	result := failing.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
	if result.Message != "database is locked" {
		t.Errorf("Message = %v, want database is locked", result.Message)
	}
}

func TestExpressionCheck(t *testing.T) {
	tests := []struct {
		name string
		eval func(string) (float64, error)
		want Status
	}{
		{"correct", func(string) (float64, error) { return 14, nil }, StatusHealthy},
		{"wrong", func(string) (float64, error) { return 20, nil }, StatusDegraded},
		{"failing", func(string) (float64, error) { return 0, errors.New("parse error") }, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := ExpressionCheck("engine", "2+3*4", 14, tt.eval)
			if got := checker.Check(context.Background()).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTCPCheck(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	address := listener.Addr().String()

	checker := TCPCheck("grpc-port", address, time.Second)
	if got := checker.Check(context.Background()).Status; got != StatusHealthy {
		t.Errorf("Status = %v, want healthy", got)
	}

	listener.Close()
	if got := checker.Check(context.Background()).Status; got != StatusUnhealthy {
		t.Errorf("Status after close = %v, want unhealthy", got)
	}
}

func TestHandler(t *testing.T) {
	registry := NewRegistry("calc", "1.0.0")
	registry.Register(PingCheck("engine", func(ctx context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	Handler(registry, time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}

	var report Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != StatusHealthy || len(report.Checks) != 1 {
		t.Errorf("unexpected report %+v", report)
	}

	registry.Register(PingCheck("history-db", func(ctx context.Context) error {
		return errors.New("database is locked")
	}))
	rec = httptest.NewRecorder()
	Handler(registry, time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{Service: "calc", Status: StatusHealthy, Uptime: time.Hour, Checks: []CheckResult{{}, {}}}

	want := "Service: calc, Status: healthy, Uptime: 1h0m0s, Checks: 2"
	if got := report.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
