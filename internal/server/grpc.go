package server

import (
	"context"
	"math"
	"strings"

	"github.com/patelanuj7/calculatorapp/foundation/calc"
	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
	"github.com/patelanuj7/calculatorapp/internal/history/store"
	coregrpc "github.com/patelanuj7/calculatorapp/pkg/core/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// gRPC names of the calculator service
const (
	ServiceName        = "calculator.v1.Calculator"
	EvaluateFullMethod = "/" + ServiceName + "/Evaluate"
)

// CalculatorServer is the server API of calculator.v1.Calculator. The
// request carries the expression text, the response the value.
type CalculatorServer interface {
	Evaluate(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error)
}

// CalculatorServiceDesc describes calculator.v1.Calculator. Messages are
// the well-known wrapper types so no generated code is needed.
var CalculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    evaluateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calculator/v1/calculator.proto",
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EvaluateFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).Evaluate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterCalculatorServer registers srv on s
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&CalculatorServiceDesc, srv)
}

// Ensure GRPCHandler implements CalculatorServer
var _ CalculatorServer = (*GRPCHandler)(nil)

// GRPCHandler adapts Service to the gRPC API
type GRPCHandler struct {
	service *Service
}

// NewGRPCHandler creates a new gRPC handler
func NewGRPCHandler(service *Service) *GRPCHandler {
	return &GRPCHandler{service: service}
}

// Evaluate implements CalculatorServer.Evaluate
func (h *GRPCHandler) Evaluate(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error) {
	value, err := h.service.Evaluate(ctx, req.GetValue(), store.SourceGRPC, coregrpc.GetRequestID(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Double(value), nil
}

// toStatus maps evaluation failures to InvalidArgument. The message starts
// with the error code so clients can recover it.
func toStatus(err error) error {
	code := mdwerror.GetCode(err)
	if calc.IsParseError(err) || calc.IsEvaluationError(err) || code.IsExpressionError() {
		return status.Errorf(codes.InvalidArgument, "%s: %s", code, err.Error())
	}
	return status.Errorf(codes.Internal, "%s: %s", code, err.Error())
}

// Client calls a remote calculator service
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a client on an established connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Evaluate evaluates expression remotely. Rejected expressions come back
// as *mdwerror.Error carrying the server's error code and the request ID
// from ctx.
func (c *Client) Evaluate(ctx context.Context, expression string) (float64, error) {
	out := new(wrapperspb.DoubleValue)
	err := c.conn.Invoke(ctx, EvaluateFullMethod, wrapperspb.String(expression), out)
	if err != nil {
		return 0, fromStatus(err, coregrpc.GetRequestID(ctx))
	}
	return out.GetValue(), nil
}

func fromStatus(err error, requestID string) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	code := mdwerror.CodeInternal
	message := st.Message()
	if prefix, rest, found := strings.Cut(message, ": "); found && mdwerror.Code(prefix).IsValid() {
		code = mdwerror.Code(prefix)
		message = rest
	} else if st.Code() == codes.Unavailable {
		code = mdwerror.CodeUnavailable
	}

	wrapped := mdwerror.Wrap(err, message).
		WithCode(code).
		WithOperation("calc.RemoteEvaluate").
		WithDetail("grpc_code", st.Code().String())
	if requestID != "" {
		wrapped.WithRequestID(requestID)
	}
	return wrapped
}

// finiteOrNil returns a pointer to v, or nil for Inf and NaN which JSON
// cannot carry
func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
