package devapi_test

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"smsDashboard/internal/devapi"
	"smsDashboard/internal/devapi/devapitest"
)

func TestStartHealth_ServesWithoutAuth(t *testing.T) {
	srv := devapitest.New(t)
	addr, shutdown, err := devapi.StartHealth("127.0.0.1:0", srv.API.Verifier())
	if err != nil {
		t.Fatalf("StartHealth: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	})

	conn, err := grpc.NewClient(addr.String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v", resp.GetStatus())
	}

	// Unknown methods hit the auth interceptor before the unimplemented handler.
	err = conn.Invoke(ctx, "/sms.v1.Admin/Reset", &healthpb.HealthCheckRequest{}, &healthpb.HealthCheckResponse{})
	if status.Code(err) != codes.Unimplemented && status.Code(err) != codes.Unauthenticated {
		t.Fatalf("unexpected code for unknown method: %v", err)
	}
}
