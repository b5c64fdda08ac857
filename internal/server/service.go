package server

import (
	"context"
	"time"

	"github.com/patelanuj7/calculatorapp/foundation/calc"
	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
	"github.com/patelanuj7/calculatorapp/internal/history/store"
	"github.com/patelanuj7/calculatorapp/pkg/core/cache"
	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
)

// Evaluator is the part of the calc engine the service needs
type Evaluator interface {
	Evaluate(text string) (float64, error)
}

// Service evaluates expressions for every transport and records the
// outcome in cache, metrics and history
type Service struct {
	engine  Evaluator
	policy  string
	cache   *cache.ResultCache
	history store.HistoryStore
	metrics *Metrics
	logger  *logging.Logger
}

// ServiceConfig holds the collaborators of a Service. Cache and History
// are optional.
type ServiceConfig struct {
	Engine  Evaluator
	Policy  string // cache scope, e.g. "strict/lenient/4096"
	Cache   *cache.ResultCache
	History store.HistoryStore
	Metrics *Metrics
	Logger  *logging.Logger
}

// NewService creates a new evaluation service
func NewService(cfg ServiceConfig) *Service {
	if cfg.Engine == nil {
		engine, _ := calc.New(calc.Options{})
		cfg.Engine = engine
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("calc-service")
	}
	cfg.Metrics.WatchCache(cfg.Cache)

	return &Service{
		engine:  cfg.Engine,
		policy:  cfg.Policy,
		cache:   cfg.Cache,
		history: cfg.History,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// Evaluate evaluates expression on behalf of source
func (s *Service) Evaluate(ctx context.Context, expression string, source store.Source, requestID string) (float64, error) {
	start := time.Now()

	var value float64
	var err error
	if s.cache != nil {
		var hit bool
		value, hit, err = s.cache.Evaluate(s.policy, expression, s.engine.Evaluate)
		if hit {
			s.metrics.CacheHits.Inc()
		}
	} else {
		value, err = s.engine.Evaluate(expression)
	}

	duration := time.Since(start)
	s.metrics.Observe(string(source), err, duration)

	if s.history != nil {
		record := &store.Record{
			Expression: expression,
			Value:      value,
			Success:    err == nil,
			Source:     source,
			RequestID:  requestID,
			Duration:   duration,
		}
		if err != nil {
			record.ErrorCode = mdwerror.GetCode(err).String()
			record.Error = err.Error()
		}
		if herr := s.history.Record(ctx, record); herr != nil {
			s.logger.WithRequestID(requestID).WarnWithErr("Failed to record history", herr)
		}
	}

	return value, err
}

// Metrics returns the service metrics
func (s *Service) Metrics() *Metrics {
	return s.metrics
}
