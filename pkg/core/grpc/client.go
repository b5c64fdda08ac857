package grpc

import (
	"fmt"
	"time"

	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// ClientConfig holds gRPC client configuration
type ClientConfig struct {
	Target            string
	Timeout           time.Duration
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
}

// DefaultClientConfig returns a default client configuration
func DefaultClientConfig(target string) ClientConfig {
	return ClientConfig{
		Target:            target,
		Timeout:           10 * time.Second,
		MaxRecvMsgSize:    1024 * 1024,
		MaxSendMsgSize:    1024 * 1024,
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

// Dial creates a new gRPC client connection. The connection is established
// lazily on the first call.
func Dial(cfg ClientConfig, logger *logging.Logger, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if logger == nil {
		logger = logging.New("grpc-client")
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
			grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                cfg.KeepaliveInterval,
			Timeout:             cfg.KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
		grpc.WithChainUnaryInterceptor(
			ClientRequestIDInterceptor(),
			ClientLoggingInterceptor(logger),
		),
	}

	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(cfg.Target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.Target, err)
	}

	return conn, nil
}
