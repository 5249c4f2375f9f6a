// Package grpc runs the standard gRPC health service so orchestrators can
// probe the server's dependencies.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/krabbypatty1031-blip/JustAsk/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside the overall "" status.
const ServiceName = "justask.JustAsk"

const defaultProbeInterval = 10 * time.Second

// Probe checks one dependency. A non-nil error marks the server NOT_SERVING.
type Probe func(ctx context.Context) error

type GRPCServer struct {
	address  string
	logger   logging.Logger
	health   *health.Server
	probes   map[string]Probe
	interval time.Duration
}

func NewGRPCServer(address string, l logging.Logger, probes map[string]Probe) *GRPCServer {
	return &GRPCServer{
		address:  address,
		logger:   l.With("module", "grpc_server"),
		health:   health.NewServer(),
		probes:   probes,
		interval: defaultProbeInterval,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.checkProbes(ctx)
	go s.watchProbes(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}

func (s *GRPCServer) watchProbes(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkProbes(ctx)
		}
	}
}

// checkProbes runs every probe and publishes the combined status.
func (s *GRPCServer) checkProbes(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	for name, probe := range s.probes {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := probe(pctx)
		cancel()
		if err != nil {
			s.logger.Warn(ctx, "health probe failed", "probe", name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	if ctx.Err() != nil {
		return
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
