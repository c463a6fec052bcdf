package grpc

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
)

// Server wraps the gRPC server
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
}

// NewServer 监听端口并注册 ScoreService，secret 用于解析调用方 JWT
func NewServer(port int, scoreService ScoreServiceServer, secret string) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return newServer(listener, scoreService, secret), nil
}

func newServer(listener net.Listener, scoreService ScoreServiceServer, secret string) *Server {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(AuthInterceptor(secret)))
	RegisterScoreServiceServer(grpcServer, scoreService)

	return &Server{
		grpcServer: grpcServer,
		listener:   listener,
	}
}

// Start starts the gRPC server (blocking)
func (s *Server) Start() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}
