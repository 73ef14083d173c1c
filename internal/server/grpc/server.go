// Package grpc exposes the persistence bridge over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/vidkeeper/internal/bridge"
	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	pb "github.com/dmitrijs2005/vidkeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultMaxUploadBytes caps a single SaveVideo stream.
const DefaultMaxUploadBytes = 2 << 30

type GRPCServer struct {
	pb.UnimplementedBridgeServiceServer
	address        string
	bridge         *bridge.LocalBridge
	logger         logging.Logger
	jwtSecret      []byte
	maxUploadBytes int64
	health         *health.Server
}

func NewGRPCServer(a string, l logging.Logger, b *bridge.LocalBridge, secretKey string, maxUploadBytes int64) *GRPCServer {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &GRPCServer{
		address:        a,
		logger:         logging.ForModule(l, "grpc_server"),
		bridge:         b,
		jwtSecret:      []byte(secretKey),
		maxUploadBytes: maxUploadBytes,
		health:         health.NewServer(),
	}
}

// newServer builds the grpc.Server with interceptors and services
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.streamAccessTokenInterceptor),
	)
	pb.RegisterBridgeServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
