package grpc

import (
	"context"
	"net"
	"time"

	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	EnableReflection  bool
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
}

// DefaultServerConfig returns a default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		MaxRecvMsgSize:    1024 * 1024, // 1MB, expressions are small
		MaxSendMsgSize:    1024 * 1024,
		EnableReflection:  true,
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

// Server wraps a gRPC server with additional functionality
type Server struct {
	server *grpc.Server
	health *health.Server
	logger *logging.Logger
}

// NewServer creates a new gRPC server with the standard health service
// registered
func NewServer(cfg ServerConfig, logger *logging.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = logging.New("grpc-server")
	}

	serverOpts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    cfg.KeepaliveInterval,
			Timeout: cfg.KeepaliveTimeout,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(logger),
			RequestIDInterceptor(),
			LoggingInterceptor(logger),
		),
		grpc.ChainStreamInterceptor(
			StreamRecoveryInterceptor(logger),
			StreamLoggingInterceptor(logger),
		),
	}

	serverOpts = append(serverOpts, opts...)

	server := grpc.NewServer(serverOpts...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)

	if cfg.EnableReflection {
		reflection.Register(server)
	}

	return &Server{
		server: server,
		health: healthServer,
		logger: logger,
	}
}

// GRPCServer returns the underlying gRPC server for service registration
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}

// SetServingStatus reports the status of a service on the health endpoint.
// The empty service name stands for the whole server.
func (s *Server) SetServingStatus(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Serve serves on an existing listener and blocks until the server stops
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("gRPC server listening", "address", listener.Addr().String())
	return s.server.Serve(listener)
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// StopWithTimeout stops the server with a timeout
func (s *Server) StopWithTimeout(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
		s.server.Stop()
	}
}
