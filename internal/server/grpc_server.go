package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/thejerf/suture/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/muzz-matchmaker/internal/config"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
)

// GRPCServer boots a gRPC server with every provided service registered. It
// is a suture.Service: Serve blocks until ctx is cancelled, then stops
// gracefully. A stopped *grpc.Server cannot serve again, so every Serve call
// builds a fresh one and a supervisor restart gets a working server.
type GRPCServer struct {
	addr     string
	build    func() *grpc.Server
	listener net.Listener
	log      *slog.Logger
}

// NewGRPCServer prepares the server; services are registered on every Serve.
func NewGRPCServer(cfg *config.Config, m *metrics.Metrics, log *slog.Logger, registrars ...Registrar) *GRPCServer {
	log = log.With("component", "grpc")
	build := func() *grpc.Server {
		grpcServer := grpc.NewServer(
			grpc.ChainUnaryInterceptor(
				RequestIDInterceptor(),
				LoggingInterceptor(log),
				MetricsInterceptor(m),
			),
		)

		// register all services
		for _, r := range registrars {
			r.Register(grpcServer)
		}

		// enable reflection for easier debugging with grpcurl
		reflection.Register(grpcServer)
		return grpcServer
	}

	return &GRPCServer{
		addr:  fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port),
		build: build,
		log:   log,
	}
}

// WithListener makes Serve use lis instead of listening on the configured
// address. Tests pass a bufconn listener. grpc closes the listener when
// serving ends, so a failure on it is not retried.
func (s *GRPCServer) WithListener(lis net.Listener) *GRPCServer {
	s.listener = lis
	return s
}

// Serve implements suture.Service.
func (s *GRPCServer) Serve(ctx context.Context) error {
	lis := s.listener
	if lis == nil {
		var err error
		lis, err = net.Listen("tcp", s.addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
		}
	}
	srv := s.build()
	s.log.Info("gRPC server listening", "addr", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()

	select {
	case err := <-errCh:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			err = errors.New("grpc server stopped unexpectedly")
		}
		if s.listener != nil {
			return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
		}
		return err
	case <-ctx.Done():
		s.stop(srv)
		return nil
	}
}

func (s *GRPCServer) String() string { return "grpc-server" }

// stop drains in-flight RPCs, forcing a stop after a grace period.
func (s *GRPCServer) stop(srv *grpc.Server) {
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		srv.Stop()
	}
	s.log.Info("gRPC server stopped")
}
