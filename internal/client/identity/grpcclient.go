package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/common"
	pb "github.com/dmitrijs2005/waterbot/internal/proto"
	"github.com/sethvargo/go-retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Tokens is the pair persisted between console runs.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GRPCClient talks to the identity service and holds the current token
// pair.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.IdentityServiceClient

	mu       sync.Mutex
	tokens   Tokens
	onTokens func(Tokens)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the current access token. When the server
// reports the token as expired it refreshes the session once and retries.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	tokens := s.Tokens()
	if tokens.AccessToken != "" {
		ctx = withAccessToken(ctx, tokens.AccessToken)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if tokens.RefreshToken == "" {
		return err
	}

	resp, rerr := s.client.RefreshSession(ctx, &pb.RefreshSessionRequest{RefreshToken: tokens.RefreshToken})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// New creates a client for endpointURL without contacting the server.
// Extra dial options are appended after the defaults.
func New(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)
	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewIdentityServiceClient(conn)
	return c, nil
}

// Dial creates a client and pings the endpoint, retrying up to attempts
// extra times with exponential backoff starting at delay. It fails with
// ErrUnavailable when the service never answers.
func Dial(ctx context.Context, endpointURL string, attempts uint64, delay time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	if endpointURL == "" {
		return nil, fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
	}

	c, err := New(endpointURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	b := retry.WithMaxRetries(attempts, retry.NewExponential(delay))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := c.Ping(pctx); err != nil {
			if errors.Is(err, ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		c.Close()
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return c, nil
}

// OnTokens registers fn to be called whenever the token pair changes,
// including transparent refreshes.
func (s *GRPCClient) OnTokens(fn func(Tokens)) {
	s.mu.Lock()
	s.onTokens = fn
	s.mu.Unlock()
}

func (s *GRPCClient) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// SetTokens installs a previously persisted pair without notifying OnTokens.
func (s *GRPCClient) SetTokens(t Tokens) {
	s.mu.Lock()
	s.tokens = t
	s.mu.Unlock()
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.tokens = Tokens{AccessToken: access, RefreshToken: refresh}
	fn, t := s.onTokens, s.tokens
	s.mu.Unlock()
	if fn != nil {
		fn(t)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) SignUp(ctx context.Context, email, password string) (*pb.User, error) {
	resp, err := s.client.SignUp(ctx, &pb.SignUpRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return resp.User, nil
}

func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (*pb.User, error) {
	resp, err := s.client.SignIn(ctx, &pb.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return resp.User, nil
}

// SignOut revokes the current refresh session and forgets the tokens, even
// when the server call fails.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	t := s.Tokens()
	if t.AccessToken == "" {
		return nil
	}
	_, err := s.client.SignOut(ctx, &pb.SignOutRequest{RefreshToken: t.RefreshToken})
	s.setTokens("", "")
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) GetSession(ctx context.Context) (*pb.User, error) {
	if s.Tokens().AccessToken == "" {
		return nil, ErrNotSignedIn
	}
	resp, err := s.client.GetSession(ctx, &pb.GetSessionRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) ResetPasswordForEmail(ctx context.Context, email string) error {
	if _, err := s.client.ResetPasswordForEmail(ctx, &pb.ResetPasswordForEmailRequest{Email: email}); err != nil {
		return s.mapError(err)
	}
	return nil
}

// VerifyRecovery redeems a recovery code and installs the session it
// opens.
func (s *GRPCClient) VerifyRecovery(ctx context.Context, email, code string) (*pb.User, error) {
	resp, err := s.client.VerifyRecovery(ctx, &pb.VerifyRecoveryRequest{Email: email, Token: code})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return resp.User, nil
}

func (s *GRPCClient) UpdateUser(ctx context.Context, password string, md map[string]string) (*pb.User, error) {
	if s.Tokens().AccessToken == "" {
		return nil, ErrNotSignedIn
	}
	resp, err := s.client.UpdateUser(ctx, &pb.UpdateUserRequest{Password: password, Metadata: md})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Endpoint() string {
	return s.endpointURL
}
