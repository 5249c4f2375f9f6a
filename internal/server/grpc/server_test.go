package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/krabbypatty1031-blip/JustAsk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func startServer(t *testing.T, probes map[string]Probe, interval time.Duration) (healthpb.HealthClient, context.CancelFunc, <-chan error) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewGRPCServer(lis.Addr().String(), logging.Nop{}, probes)
	if interval > 0 {
		srv.interval = interval
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	t.Cleanup(cancel)

	return healthpb.NewHealthClient(conn), cancel, done
}

func check(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealth_ServingWithoutProbes(t *testing.T) {
	c, _, _ := startServer(t, nil, 0)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, c, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, c, ServiceName))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth_FailingProbe(t *testing.T) {
	var healthy atomic.Bool
	probes := map[string]Probe{
		"db": func(context.Context) error {
			if healthy.Load() {
				return nil
			}
			return errors.New("db down")
		},
	}
	c, _, _ := startServer(t, probes, 20*time.Millisecond)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, c, ""))

	healthy.Store(true)
	assert.Eventually(t, func() bool {
		return check(t, c, "") == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	_, cancel, done := startServer(t, nil, 0)

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	srv := NewGRPCServer("256.0.0.1:bad", logging.Nop{}, nil)
	require.Error(t, srv.Run(context.Background()))
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	srv := NewGRPCServer("", logging.Nop{}, nil)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := srv.loggingInterceptor(context.Background(), "req", info,
		func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	wantErr := status.Error(codes.Internal, "boom")
	_, err = srv.loggingInterceptor(context.Background(), "req", info,
		func(ctx context.Context, req interface{}) (interface{}, error) { return nil, wantErr })
	assert.Equal(t, wantErr, err)
}
