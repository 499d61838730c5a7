package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ParseFromMD extracts and verifies a Bearer token from gRPC metadata.
func (v *Verifier) ParseFromMD(ctx context.Context) (*Principal, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, errors.New("missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return nil, errors.New("missing authorization")
	}
	tok, err := splitBearer(vals[0])
	if err != nil {
		return nil, err
	}
	return v.Verify(ctx, tok)
}

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that verifies the
// Bearer session token from incoming metadata and injects the Principal into
// the context. Methods listed in allowUnauthenticated bypass authentication
// (e.g., health checks).
func NewUnaryAuthInterceptor(v *Verifier, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		p, err := v.ParseFromMD(ctx)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(WithPrincipal(ctx, p), req)
	}
}
