package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/waterbot/internal/common"
	pb "github.com/dmitrijs2005/waterbot/internal/proto"
	"github.com/dmitrijs2005/waterbot/internal/server/models"
	"github.com/dmitrijs2005/waterbot/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) SignUp(ctx context.Context, req *pb.SignUpRequest) (*pb.AuthResponse, error) {
	sess, err := s.users.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "sign up", err)
	}
	return toAuthResponse(sess), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *pb.SignInRequest) (*pb.AuthResponse, error) {
	sess, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "sign in", err)
	}
	return toAuthResponse(sess), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, req *pb.SignOutRequest) (*pb.SignOutResponse, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if err := s.users.SignOut(ctx, id.UserID, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, "sign out", err)
	}
	return &pb.SignOutResponse{}, nil
}

func (s *GRPCServer) GetSession(ctx context.Context, req *pb.GetSessionRequest) (*pb.GetSessionResponse, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	user, err := s.users.GetUser(ctx, id.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, "get session", err)
	}
	return &pb.GetSessionResponse{User: toProtoUser(user)}, nil
}

func (s *GRPCServer) RefreshSession(ctx context.Context, req *pb.RefreshSessionRequest) (*pb.AuthResponse, error) {
	sess, err := s.users.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
		}
		return nil, s.toStatus(ctx, "refresh session", err)
	}
	return toAuthResponse(sess), nil
}

func (s *GRPCServer) ResetPasswordForEmail(ctx context.Context, req *pb.ResetPasswordForEmailRequest) (*pb.ResetPasswordForEmailResponse, error) {
	if err := s.users.RequestPasswordReset(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, "reset password", err)
	}
	return &pb.ResetPasswordForEmailResponse{}, nil
}

// VerifyRecovery exchanges a recovery code for a session. The caller then
// sets the new password through UpdateUser.
func (s *GRPCServer) VerifyRecovery(ctx context.Context, req *pb.VerifyRecoveryRequest) (*pb.AuthResponse, error) {
	sess, err := s.users.VerifyRecovery(ctx, req.Email, req.Token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired recovery code")
		}
		return nil, s.toStatus(ctx, "verify recovery", err)
	}
	return toAuthResponse(sess), nil
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *pb.UpdateUserRequest) (*pb.UpdateUserResponse, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	user, err := s.users.UpdateUser(ctx, id.UserID, req.Password, req.Metadata)
	if err != nil {
		return nil, s.toStatus(ctx, "update user", err)
	}
	return &pb.UpdateUserResponse{User: toProtoUser(user)}, nil
}

// toStatus maps service errors onto gRPC status codes. Unexpected errors are
// logged and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": "))
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func toAuthResponse(sess *services.Session) *pb.AuthResponse {
	return &pb.AuthResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User:         toProtoUser(sess.User),
	}
}

func toProtoUser(u *models.User) *pb.User {
	if u == nil {
		return nil
	}
	pu := &pb.User{ID: u.ID, Email: u.Email, Metadata: u.Metadata}
	if !u.CreatedAt.IsZero() {
		pu.CreatedAt = timestamppb.New(u.CreatedAt)
	}
	return pu
}
