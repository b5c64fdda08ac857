package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Context keys for request metadata
type contextKey string

const (
	RequestIDKey    contextKey = "request_id"
	RequestIDHeader string     = "x-request-id"
)

// RecoveryInterceptor recovers from panics in gRPC handlers
func RecoveryInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC panic recovered", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// StreamRecoveryInterceptor recovers from panics in streaming gRPC handlers
func StreamRecoveryInterceptor(logger *logging.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC stream panic recovered", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(srv, ss)
	}
}

// LoggingInterceptor logs gRPC requests. It runs after RequestIDInterceptor
// so the request ID is always present.
func LoggingInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		logger.Info("gRPC request",
			"request_id", GetRequestID(ctx),
			"method", info.FullMethod,
			"status", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)

		return resp, err
	}
}

// StreamLoggingInterceptor logs gRPC streaming requests
func StreamLoggingInterceptor(logger *logging.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()

		err := handler(srv, ss)

		logger.Info("gRPC stream request",
			"request_id", GetRequestID(ss.Context()),
			"method", info.FullMethod,
			"status", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)

		return err
	}
}

// RequestIDInterceptor adds a request ID to the context and echoes it in
// the response header
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requestID := extractRequestID(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		return handler(ctx, req)
	}
}

// ClientRequestIDInterceptor propagates request ID to outgoing requests
func ClientRequestIDInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		requestID := GetRequestID(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, requestID)

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// ClientLoggingInterceptor logs outgoing gRPC requests
func ClientLoggingInterceptor(logger *logging.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()

		err := invoker(ctx, method, req, reply, cc, opts...)

		logger.Debug("gRPC client request",
			"method", method,
			"status", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)

		return err
	}
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return extractRequestID(ctx)
}

// extractRequestID extracts request ID from incoming metadata
func extractRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	values := md.Get(RequestIDHeader)
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}
