package server

import "google.golang.org/grpc"

// Registrar attaches a service implementation to the gRPC server before it
// starts serving.
type Registrar interface {
	Register(s *grpc.Server)
}
