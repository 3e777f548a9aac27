package grpc

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/stockpicker-backend/internal/logger"
)

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// Both "<token>" and "Bearer <token>" are accepted.
// If the token is missing or invalid, it returns status.Unauthenticated.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		if strings.TrimPrefix(authHeaders[0], "Bearer ") != validToken {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor attaches a request-scoped logger to the context and
// logs every call with its status code and duration
func LoggingInterceptor(log *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		reqLog := log.With("method", info.FullMethod)

		resp, err := handler(logger.WithContext(ctx, reqLog), req)

		code := status.Code(err)
		fields := []interface{}{"code", code.String(), "duration", time.Since(start)}
		switch code {
		case codes.OK:
			reqLog.Infow("grpc call", fields...)
		case codes.Internal, codes.Unknown:
			reqLog.Errorw("grpc call", append(fields, zap.Error(err))...)
		default:
			reqLog.Warnw("grpc call", append(fields, zap.Error(err))...)
		}

		return resp, err
	}
}
