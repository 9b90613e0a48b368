package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "waterbot.identity.IdentityService"

const (
	IdentityService_Ping_FullMethodName                  = "/" + ServiceName + "/Ping"
	IdentityService_SignUp_FullMethodName                = "/" + ServiceName + "/SignUp"
	IdentityService_SignIn_FullMethodName                = "/" + ServiceName + "/SignIn"
	IdentityService_SignOut_FullMethodName               = "/" + ServiceName + "/SignOut"
	IdentityService_GetSession_FullMethodName            = "/" + ServiceName + "/GetSession"
	IdentityService_RefreshSession_FullMethodName        = "/" + ServiceName + "/RefreshSession"
	IdentityService_ResetPasswordForEmail_FullMethodName = "/" + ServiceName + "/ResetPasswordForEmail"
	IdentityService_VerifyRecovery_FullMethodName        = "/" + ServiceName + "/VerifyRecovery"
	IdentityService_UpdateUser_FullMethodName            = "/" + ServiceName + "/UpdateUser"
)

// IdentityServiceClient is the client API for the identity service.
type IdentityServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*SignOutResponse, error)
	GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*GetSessionResponse, error)
	RefreshSession(ctx context.Context, in *RefreshSessionRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	ResetPasswordForEmail(ctx context.Context, in *ResetPasswordForEmailRequest, opts ...grpc.CallOption) (*ResetPasswordForEmailResponse, error)
	VerifyRecovery(ctx context.Context, in *VerifyRecoveryRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*UpdateUserResponse, error)
}

type identityServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityServiceClient(cc grpc.ClientConnInterface) IdentityServiceClient {
	return &identityServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *identityServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, IdentityService_Ping_FullMethodName, in, opts)
}

func (c *identityServiceClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, IdentityService_SignUp_FullMethodName, in, opts)
}

func (c *identityServiceClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, IdentityService_SignIn_FullMethodName, in, opts)
}

func (c *identityServiceClient) SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*SignOutResponse, error) {
	return invoke[SignOutResponse](ctx, c.cc, IdentityService_SignOut_FullMethodName, in, opts)
}

func (c *identityServiceClient) GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*GetSessionResponse, error) {
	return invoke[GetSessionResponse](ctx, c.cc, IdentityService_GetSession_FullMethodName, in, opts)
}

func (c *identityServiceClient) RefreshSession(ctx context.Context, in *RefreshSessionRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, IdentityService_RefreshSession_FullMethodName, in, opts)
}

func (c *identityServiceClient) ResetPasswordForEmail(ctx context.Context, in *ResetPasswordForEmailRequest, opts ...grpc.CallOption) (*ResetPasswordForEmailResponse, error) {
	return invoke[ResetPasswordForEmailResponse](ctx, c.cc, IdentityService_ResetPasswordForEmail_FullMethodName, in, opts)
}

func (c *identityServiceClient) VerifyRecovery(ctx context.Context, in *VerifyRecoveryRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, IdentityService_VerifyRecovery_FullMethodName, in, opts)
}

func (c *identityServiceClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*UpdateUserResponse, error) {
	return invoke[UpdateUserResponse](ctx, c.cc, IdentityService_UpdateUser_FullMethodName, in, opts)
}

// IdentityServiceServer is the server API for the identity service.
type IdentityServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	SignUp(context.Context, *SignUpRequest) (*AuthResponse, error)
	SignIn(context.Context, *SignInRequest) (*AuthResponse, error)
	SignOut(context.Context, *SignOutRequest) (*SignOutResponse, error)
	GetSession(context.Context, *GetSessionRequest) (*GetSessionResponse, error)
	RefreshSession(context.Context, *RefreshSessionRequest) (*AuthResponse, error)
	ResetPasswordForEmail(context.Context, *ResetPasswordForEmailRequest) (*ResetPasswordForEmailResponse, error)
	VerifyRecovery(context.Context, *VerifyRecoveryRequest) (*AuthResponse, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*UpdateUserResponse, error)
}

// UnimplementedIdentityServiceServer can be embedded to satisfy
// IdentityServiceServer while only overriding some methods.
type UnimplementedIdentityServiceServer struct{}

func (UnimplementedIdentityServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedIdentityServiceServer) SignUp(context.Context, *SignUpRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignUp not implemented")
}
func (UnimplementedIdentityServiceServer) SignIn(context.Context, *SignInRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignIn not implemented")
}
func (UnimplementedIdentityServiceServer) SignOut(context.Context, *SignOutRequest) (*SignOutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignOut not implemented")
}
func (UnimplementedIdentityServiceServer) GetSession(context.Context, *GetSessionRequest) (*GetSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSession not implemented")
}
func (UnimplementedIdentityServiceServer) RefreshSession(context.Context, *RefreshSessionRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshSession not implemented")
}
func (UnimplementedIdentityServiceServer) ResetPasswordForEmail(context.Context, *ResetPasswordForEmailRequest) (*ResetPasswordForEmailResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetPasswordForEmail not implemented")
}
func (UnimplementedIdentityServiceServer) VerifyRecovery(context.Context, *VerifyRecoveryRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyRecovery not implemented")
}
func (UnimplementedIdentityServiceServer) UpdateUser(context.Context, *UpdateUserRequest) (*UpdateUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateUser not implemented")
}

func unaryHandler[Req any, Resp any](fullMethod string, call func(IdentityServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IdentityServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IdentityServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// IdentityService_ServiceDesc describes the service for grpc.ServiceRegistrar.
var IdentityService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(IdentityService_Ping_FullMethodName, IdentityServiceServer.Ping)},
		{MethodName: "SignUp", Handler: unaryHandler(IdentityService_SignUp_FullMethodName, IdentityServiceServer.SignUp)},
		{MethodName: "SignIn", Handler: unaryHandler(IdentityService_SignIn_FullMethodName, IdentityServiceServer.SignIn)},
		{MethodName: "SignOut", Handler: unaryHandler(IdentityService_SignOut_FullMethodName, IdentityServiceServer.SignOut)},
		{MethodName: "GetSession", Handler: unaryHandler(IdentityService_GetSession_FullMethodName, IdentityServiceServer.GetSession)},
		{MethodName: "RefreshSession", Handler: unaryHandler(IdentityService_RefreshSession_FullMethodName, IdentityServiceServer.RefreshSession)},
		{MethodName: "ResetPasswordForEmail", Handler: unaryHandler(IdentityService_ResetPasswordForEmail_FullMethodName, IdentityServiceServer.ResetPasswordForEmail)},
		{MethodName: "VerifyRecovery", Handler: unaryHandler(IdentityService_VerifyRecovery_FullMethodName, IdentityServiceServer.VerifyRecovery)},
		{MethodName: "UpdateUser", Handler: unaryHandler(IdentityService_UpdateUser_FullMethodName, IdentityServiceServer.UpdateUser)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "identity.proto",
}

func RegisterIdentityServiceServer(s grpc.ServiceRegistrar, srv IdentityServiceServer) {
	s.RegisterService(&IdentityService_ServiceDesc, srv)
}
