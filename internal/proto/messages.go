package proto

import (
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Package name of the identity messages in identity.proto.
const protoPackage = "waterbot.identity."

// text renders m in the protobuf text format.
func text(m protoadapt.MessageV1) string {
	return prototext.MarshalOptions{}.Format(protoadapt.MessageV2Of(m))
}

type User struct {
	ID        string                 `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Email     string                 `protobuf:"bytes,2,opt,name=email,proto3" json:"email,omitempty"`
	Metadata  map[string]string      `protobuf:"bytes,3,rep,name=metadata,proto3" json:"metadata,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
	CreatedAt *timestamppb.Timestamp `protobuf:"bytes,4,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

func (m *User) Reset() { *m = User{} }
func (m *User) String() string { return text(m) }
func (*User) ProtoMessage() {}
func (*User) XXX_MessageName() string { return protoPackage + "User" }

type PingRequest struct{}

func (m *PingRequest) Reset() { *m = PingRequest{} }
func (m *PingRequest) String() string { return text(m) }
func (*PingRequest) ProtoMessage() {}
func (*PingRequest) XXX_MessageName() string { return protoPackage + "PingRequest" }

type PingResponse struct {
	Status string `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

func (m *PingResponse) Reset() { *m = PingResponse{} }
func (m *PingResponse) String() string { return text(m) }
func (*PingResponse) ProtoMessage() {}
func (*PingResponse) XXX_MessageName() string { return protoPackage + "PingResponse" }

type SignUpRequest struct {
	Email    string `protobuf:"bytes,1,opt,name=email,proto3" json:"email,omitempty"`
	Password string `protobuf:"bytes,2,opt,name=password,proto3" json:"password,omitempty"`
}

func (m *SignUpRequest) Reset() { *m = SignUpRequest{} }
func (m *SignUpRequest) String() string { return text(m) }
func (*SignUpRequest) ProtoMessage() {}
func (*SignUpRequest) XXX_MessageName() string { return protoPackage + "SignUpRequest" }

type SignInRequest struct {
	Email    string `protobuf:"bytes,1,opt,name=email,proto3" json:"email,omitempty"`
	Password string `protobuf:"bytes,2,opt,name=password,proto3" json:"password,omitempty"`
}

func (m *SignInRequest) Reset() { *m = SignInRequest{} }
func (m *SignInRequest) String() string { return text(m) }
func (*SignInRequest) ProtoMessage() {}
func (*SignInRequest) XXX_MessageName() string { return protoPackage + "SignInRequest" }

// AuthResponse is returned by SignUp, SignIn, RefreshSession and
// VerifyRecovery.
type AuthResponse struct {
	AccessToken  string `protobuf:"bytes,1,opt,name=access_token,json=accessToken,proto3" json:"access_token,omitempty"`
	RefreshToken string `protobuf:"bytes,2,opt,name=refresh_token,json=refreshToken,proto3" json:"refresh_token,omitempty"`
	User         *User  `protobuf:"bytes,3,opt,name=user,proto3" json:"user,omitempty"`
}

func (m *AuthResponse) Reset() { *m = AuthResponse{} }
func (m *AuthResponse) String() string { return text(m) }
func (*AuthResponse) ProtoMessage() {}
func (*AuthResponse) XXX_MessageName() string { return protoPackage + "AuthResponse" }

type SignOutRequest struct {
	RefreshToken string `protobuf:"bytes,1,opt,name=refresh_token,json=refreshToken,proto3" json:"refresh_token,omitempty"`
}

func (m *SignOutRequest) Reset() { *m = SignOutRequest{} }
func (m *SignOutRequest) String() string { return text(m) }
func (*SignOutRequest) ProtoMessage() {}
func (*SignOutRequest) XXX_MessageName() string { return protoPackage + "SignOutRequest" }

type SignOutResponse struct{}

func (m *SignOutResponse) Reset() { *m = SignOutResponse{} }
func (m *SignOutResponse) String() string { return text(m) }
func (*SignOutResponse) ProtoMessage() {}
func (*SignOutResponse) XXX_MessageName() string { return protoPackage + "SignOutResponse" }

type GetSessionRequest struct{}

func (m *GetSessionRequest) Reset() { *m = GetSessionRequest{} }
func (m *GetSessionRequest) String() string { return text(m) }
func (*GetSessionRequest) ProtoMessage() {}
func (*GetSessionRequest) XXX_MessageName() string { return protoPackage + "GetSessionRequest" }

type GetSessionResponse struct {
	User *User `protobuf:"bytes,1,opt,name=user,proto3" json:"user,omitempty"`
}

func (m *GetSessionResponse) Reset() { *m = GetSessionResponse{} }
func (m *GetSessionResponse) String() string { return text(m) }
func (*GetSessionResponse) ProtoMessage() {}
func (*GetSessionResponse) XXX_MessageName() string { return protoPackage + "GetSessionResponse" }

type RefreshSessionRequest struct {
	RefreshToken string `protobuf:"bytes,1,opt,name=refresh_token,json=refreshToken,proto3" json:"refresh_token,omitempty"`
}

func (m *RefreshSessionRequest) Reset() { *m = RefreshSessionRequest{} }
func (m *RefreshSessionRequest) String() string { return text(m) }
func (*RefreshSessionRequest) ProtoMessage() {}
func (*RefreshSessionRequest) XXX_MessageName() string { return protoPackage + "RefreshSessionRequest" }

type ResetPasswordForEmailRequest struct {
	Email string `protobuf:"bytes,1,opt,name=email,proto3" json:"email,omitempty"`
}

func (m *ResetPasswordForEmailRequest) Reset() { *m = ResetPasswordForEmailRequest{} }
func (m *ResetPasswordForEmailRequest) String() string { return text(m) }
func (*ResetPasswordForEmailRequest) ProtoMessage() {}
func (*ResetPasswordForEmailRequest) XXX_MessageName() string {
	return protoPackage + "ResetPasswordForEmailRequest"
}

type ResetPasswordForEmailResponse struct{}

func (m *ResetPasswordForEmailResponse) Reset() { *m = ResetPasswordForEmailResponse{} }
func (m *ResetPasswordForEmailResponse) String() string { return text(m) }
func (*ResetPasswordForEmailResponse) ProtoMessage() {}
func (*ResetPasswordForEmailResponse) XXX_MessageName() string {
	return protoPackage + "ResetPasswordForEmailResponse"
}

// VerifyRecoveryRequest exchanges the token issued by ResetPasswordForEmail
// for a session.
type VerifyRecoveryRequest struct {
	Email string `protobuf:"bytes,1,opt,name=email,proto3" json:"email,omitempty"`
	Token string `protobuf:"bytes,2,opt,name=token,proto3" json:"token,omitempty"`
}

func (m *VerifyRecoveryRequest) Reset() { *m = VerifyRecoveryRequest{} }
func (m *VerifyRecoveryRequest) String() string { return text(m) }
func (*VerifyRecoveryRequest) ProtoMessage() {}
func (*VerifyRecoveryRequest) XXX_MessageName() string { return protoPackage + "VerifyRecoveryRequest" }

// UpdateUserRequest changes the password when Password is non-empty and
// merges Metadata into the stored profile metadata.
type UpdateUserRequest struct {
	Password string            `protobuf:"bytes,1,opt,name=password,proto3" json:"password,omitempty"`
	Metadata map[string]string `protobuf:"bytes,2,rep,name=metadata,proto3" json:"metadata,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
}

func (m *UpdateUserRequest) Reset() { *m = UpdateUserRequest{} }
func (m *UpdateUserRequest) String() string { return text(m) }
func (*UpdateUserRequest) ProtoMessage() {}
func (*UpdateUserRequest) XXX_MessageName() string { return protoPackage + "UpdateUserRequest" }

type UpdateUserResponse struct {
	User *User `protobuf:"bytes,1,opt,name=user,proto3" json:"user,omitempty"`
}

func (m *UpdateUserResponse) Reset() { *m = UpdateUserResponse{} }
func (m *UpdateUserResponse) String() string { return text(m) }
func (*UpdateUserResponse) ProtoMessage() {}
func (*UpdateUserResponse) XXX_MessageName() string { return protoPackage + "UpdateUserResponse" }
