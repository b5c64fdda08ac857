package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
	"github.com/patelanuj7/calculatorapp/foundation/utils/mathx"
	"github.com/patelanuj7/calculatorapp/internal/history/store"
	"github.com/patelanuj7/calculatorapp/pkg/core/config"
	coregrpc "github.com/patelanuj7/calculatorapp/pkg/core/grpc"
	"github.com/patelanuj7/calculatorapp/pkg/core/health"
	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
	"github.com/patelanuj7/calculatorapp/pkg/core/version"
	"golang.org/x/sync/errgroup"
)

// Health check expression evaluated against the engine
const (
	selfCheckExpression = "2+3*4"
	selfCheckValue      = 14
)

const maxRequestBody = 64 * 1024

// Server runs the calculator's gRPC and HTTP listeners
type Server struct {
	httpServer *http.Server
	grpcServer *coregrpc.Server
	service    *Service
	health     *health.Registry
	logger     *logging.Logger
	config     Config

	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// Config holds server configuration
type Config struct {
	Host             string
	GRPCPort         int
	HTTPPort         int
	EnableReflection bool
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	AllowedOrigins   []string
	Version          string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:             "0.0.0.0",
		GRPCPort:         9300,
		HTTPPort:         8300,
		EnableReflection: true,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		Version:          version.Server,
	}
}

// ConfigFrom builds the server configuration from the application config
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Host:             cfg.Server.Host,
		GRPCPort:         cfg.Server.GRPCPort,
		HTTPPort:         cfg.Server.HTTPPort,
		EnableReflection: cfg.Server.EnableReflection,
		ReadTimeout:      cfg.Server.ReadTimeout.Duration,
		WriteTimeout:     cfg.Server.WriteTimeout.Duration,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout.Duration,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		Version:          version.Server,
	}
}

// New creates a new calculator server
func New(cfg Config, service *Service, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.New("calc-server")
	}
	if cfg.Version == "" {
		cfg.Version = version.Server
	}

	grpcCfg := coregrpc.DefaultServerConfig()
	grpcCfg.EnableReflection = cfg.EnableReflection

	grpcServer := coregrpc.NewServer(grpcCfg, logging.Wrap(logger.Logger, "calc-grpc"))
	RegisterCalculatorServer(grpcServer.GRPCServer(), NewGRPCHandler(service))
	grpcServer.SetServingStatus(ServiceName, true)

	// Health registry
	healthRegistry := health.NewRegistry("calc", cfg.Version)
	healthRegistry.Register(health.ExpressionCheck("engine", selfCheckExpression, selfCheckValue, service.engine.Evaluate))
	if service.history != nil {
		healthRegistry.Register(health.PingCheck("history", service.history.Ping))
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebSocketHandler(service, cfg.AllowedOrigins, logging.Wrap(logger.Logger, "calc-websocket")))
	mux.Handle("/healthz", health.Handler(healthRegistry, 5*time.Second))
	mux.Handle("/metrics", service.Metrics().Handler())
	mux.HandleFunc("/api/v1/evaluate", evaluateHTTP(service))

	baseCtx, cancelBase := context.WithCancel(context.Background())

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	return &Server{
		httpServer: httpServer,
		grpcServer: grpcServer,
		service:    service,
		health:     healthRegistry,
		logger:     logger,
		config:     cfg,
		baseCtx:    baseCtx,
		cancelBase: cancelBase,
	}
}

// EvaluateRequest is the body of POST /api/v1/evaluate
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is returned by POST /api/v1/evaluate
type EvaluateResponse struct {
	Expression string   `json:"expression"`
	Value      *float64 `json:"value"`
	Display    string   `json:"display"`
	RequestID  string   `json:"request_id"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func evaluateHTTP(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(coregrpc.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(coregrpc.RequestIDHeader, requestID)

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
				Code:      mdwerror.CodeInvalidInput.String(),
				Message:   "method not allowed",
				RequestID: requestID,
			})
			return
		}

		var req EvaluateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Code:      mdwerror.CodeInvalidInput.String(),
				Message:   "invalid request body",
				RequestID: requestID,
			})
			return
		}

		value, err := service.Evaluate(r.Context(), req.Expression, store.SourceHTTP, requestID)
		if err != nil {
			code := mdwerror.GetCode(err)
			writeJSON(w, code.HTTPStatus(), ErrorResponse{
				Code:      code.String(),
				Message:   err.Error(),
				RequestID: requestID,
			})
			return
		}

		writeJSON(w, http.StatusOK, EvaluateResponse{
			Expression: req.Expression,
			Value:      finiteOrNil(value),
			Display:    mathx.FormatResult(value),
			RequestID:  requestID,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for the websocket upgrade
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Handler returns the HTTP handler, for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// GRPCServer returns the wrapped gRPC server
func (s *Server) GRPCServer() *coregrpc.Server {
	return s.grpcServer
}

// Run listens on the configured addresses and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	grpcLis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.config.Host, s.config.GRPCPort))
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen for gRPC").
			WithCode(mdwerror.CodeUnavailable).
			WithDetail("port", s.config.GRPCPort)
	}
	httpLis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		grpcLis.Close()
		return mdwerror.Wrap(err, "failed to listen for HTTP").
			WithCode(mdwerror.CodeUnavailable).
			WithDetail("port", s.config.HTTPPort)
	}
	return s.Serve(ctx, grpcLis, httpLis)
}

// Serve serves gRPC and HTTP on the given listeners until ctx is done or
// one of them fails, then shuts both down
func (s *Server) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	s.logger.Info("Starting calculator server",
		"grpc", grpcLis.Addr().String(),
		"http", httpLis.Addr().String(),
		"version", s.config.Version,
	)

	s.health.Register(health.TCPCheck("grpc", grpcLis.Addr().String(), time.Second))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.grpcServer.Serve(grpcLis)
	})
	g.Go(func() error {
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	s.logger.Info("Stopping calculator server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.cancelBase()
	s.grpcServer.StopWithTimeout(ctx)
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.WarnWithErr("HTTP shutdown incomplete", err)
		return err
	}
	return nil
}
