// Package grpc exposes the identity service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/waterbot/internal/logging"
	pb "github.com/dmitrijs2005/waterbot/internal/proto"
	"github.com/dmitrijs2005/waterbot/internal/server/auth"
	"github.com/dmitrijs2005/waterbot/internal/server/models"
	"github.com/dmitrijs2005/waterbot/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the business logic the handlers delegate to.
type UserService interface {
	SignUp(ctx context.Context, email, password string) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	SignOut(ctx context.Context, userID, refreshToken string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	RefreshSession(ctx context.Context, refreshToken string) (*services.Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyRecovery(ctx context.Context, email, code string) (*services.Session, error)
	UpdateUser(ctx context.Context, userID, password string, metadata map[string]string) (*models.User, error)
	AccessIdentity(token string) (*auth.Identity, error)
}

// GRPCServer implements the identity service on top of UserService.
type GRPCServer struct {
	pb.UnimplementedIdentityServiceServer
	address string
	users   UserService
	logger  logging.Logger
}

// NewGRPCServer constructs a server that will listen on address.
func NewGRPCServer(address string, l logging.Logger, us UserService) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		users:   us,
	}
}

// NewServer builds a grpc.Server with the access token interceptor and the
// identity service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor)}, opts...)
	srv := grpc.NewServer(opts...)
	pb.RegisterIdentityServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
