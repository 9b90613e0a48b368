package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/common"
	pb "github.com/dmitrijs2005/waterbot/internal/proto"
	"github.com/dmitrijs2005/waterbot/internal/server/models"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{fmt.Errorf("%w: invalid email address", common.ErrorValidation), codes.InvalidArgument, "invalid email address"},
		{common.ErrorAlreadyExists, codes.AlreadyExists, "email already registered"},
		{common.ErrorUnauthorized, codes.Unauthenticated, "invalid email or password"},
		{common.ErrRefreshTokenExpired, codes.Unauthenticated, "refresh token expired"},
		{fmt.Errorf("wrap: %w", common.ErrorNotFound), codes.NotFound, "not found"},
		{errors.New("db exploded"), codes.Internal, "internal error"},
	}
	for _, tt := range tests {
		st := status.Convert(s.toStatus(context.Background(), "op", tt.err))
		assert.Equal(t, tt.code, st.Code(), tt.err.Error())
		assert.Equal(t, tt.msg, st.Message())
	}
}

func TestHandlers_RequireIdentity(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, err := s.SignOut(ctx, &pb.SignOutRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = s.GetSession(ctx, &pb.GetSessionRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = s.UpdateUser(ctx, &pb.UpdateUserRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestResetPassword_InternalError(t *testing.T) {
	users := newFakeUsers()
	users.err = errors.New("db down")
	s := NewGRPCServer("", newTestServer().logger, users)

	_, err := s.ResetPasswordForEmail(context.Background(), &pb.ResetPasswordForEmailRequest{Email: "a@b.co"})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, []string{"a@b.co"}, users.resetEmails)
}

func TestToProtoUser(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	pu := toProtoUser(&models.User{ID: "u1", Email: "pilot@example.com", CreatedAt: created})
	assert.Equal(t, "u1", pu.ID)
	assert.Equal(t, created, pu.CreatedAt.AsTime())

	assert.Nil(t, toProtoUser(&models.User{ID: "u2"}).CreatedAt)
	assert.Nil(t, toProtoUser(nil))
}
