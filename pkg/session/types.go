package session

import (
	"context"

	"github.com/sessionlab/authkit/pkg/credstore"
)

// LoginResponse is the payload a successful authentication yields.
type LoginResponse struct {
	User         *credstore.User        `json:"user"`
	Token        *credstore.Token       `json:"token"`
	Privileges   []string               `json:"privileges"`
	Roles        []string               `json:"roles"`
	Organization credstore.Organization `json:"organization"`
}

// AuthAPI is the remote authentication backend.
type AuthAPI interface {
	LoginByUsername(ctx context.Context, username, password string) (*LoginResponse, error)
	LoginByMobile(ctx context.Context, mobile, code string) (*LoginResponse, error)
	LoginByOpenID(ctx context.Context, network, appID, openID string) (*LoginResponse, error)
	BindOpenID(ctx context.Context, network, appID, openID string) error
	Logout(ctx context.Context) error
	GetLoginInfo(ctx context.Context) (*LoginResponse, error)

	// CheckToken revalidates a stored credential. A nil token or an error
	// both mean the credential is no longer usable.
	CheckToken(ctx context.Context, userID credstore.UserID, tokenValue string) (*credstore.Token, error)
}

// VerifyCodeAPI sends one-time verification codes.
type VerifyCodeAPI interface {
	SendBySMS(ctx context.Context, mobile, scene string) error
}

// DeviceTokenLoader restores a credential from a platform-native source
// before persisted storage is consulted. Returning false means no such
// credential is available.
type DeviceTokenLoader func(ctx context.Context) (*credstore.Token, bool)
