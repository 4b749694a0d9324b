package authapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sessionlab/authkit/pkg/apiclient"
	"github.com/sessionlab/authkit/pkg/credstore"
	"github.com/sessionlab/authkit/pkg/session"
)

// API is the HTTP implementation of session.AuthAPI and
// session.VerifyCodeAPI. All calls opt out of the transport's automatic UI
// handling; the session layer owns failure recovery for its own requests.
type API struct {
	client *apiclient.Client
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an API during construction.
type Option func(*API)

// WithLogger sets the logger for non-fatal diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an API over the given transport client.
func New(client *apiclient.Client, opts ...Option) (*API, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	a := &API{
		client: client,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

type usernameLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type mobileLoginRequest struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

type openIDRequest struct {
	Network string `json:"network"`
	AppID   string `json:"app_id"`
	OpenID  string `json:"open_id"`
}

type checkTokenRequest struct {
	UserID credstore.UserID `json:"user_id"`
	Token  string           `json:"token"`
}

type sendCodeRequest struct {
	Mobile string `json:"mobile"`
	Scene  string `json:"scene"`
}

// LoginByUsername authenticates with a username/password pair.
func (a *API) LoginByUsername(ctx context.Context, username, password string) (*session.LoginResponse, error) {
	var resp session.LoginResponse
	err := a.client.Post(ctx, "/auth/login",
		usernameLoginRequest{Username: username, Password: password},
		&resp, apiclient.WithManualErrors())
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginByMobile authenticates with a mobile number and an SMS code.
func (a *API) LoginByMobile(ctx context.Context, mobile, code string) (*session.LoginResponse, error) {
	var resp session.LoginResponse
	err := a.client.Post(ctx, "/auth/login/mobile",
		mobileLoginRequest{Mobile: mobile, Code: code},
		&resp, apiclient.WithManualErrors())
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginByOpenID authenticates with a social identity triple.
func (a *API) LoginByOpenID(ctx context.Context, network, appID, openID string) (*session.LoginResponse, error) {
	var resp session.LoginResponse
	err := a.client.Post(ctx, "/auth/login/openid",
		openIDRequest{Network: network, AppID: appID, OpenID: openID},
		&resp, apiclient.WithManualErrors())
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// BindOpenID attaches a social identity to the authenticated account.
func (a *API) BindOpenID(ctx context.Context, network, appID, openID string) error {
	return a.client.Post(ctx, "/auth/openid",
		openIDRequest{Network: network, AppID: appID, OpenID: openID},
		nil, apiclient.WithManualErrors())
}

// Logout ends the session on the backend.
func (a *API) Logout(ctx context.Context) error {
	return a.client.Post(ctx, "/auth/logout", nil, nil, apiclient.WithManualErrors())
}

// GetLoginInfo fetches the authenticated profile.
func (a *API) GetLoginInfo(ctx context.Context) (*session.LoginResponse, error) {
	var resp session.LoginResponse
	if err := a.client.Get(ctx, "/auth/me", &resp, apiclient.WithManualErrors()); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckToken revalidates a stored credential with the backend. When the
// value is a JWT whose expiry has already passed, the round trip is skipped
// and the credential reported invalid locally. Opaque values always go to
// the server.
func (a *API) CheckToken(ctx context.Context, userID credstore.UserID, tokenValue string) (*credstore.Token, error) {
	if jwtExpired(tokenValue, a.now()) {
		a.logger.DebugContext(ctx, "authapi: token expired locally, skipping server check")
		return nil, nil
	}

	var token credstore.Token
	err := a.client.Post(ctx, "/auth/token/check",
		checkTokenRequest{UserID: userID, Token: tokenValue},
		&token, apiclient.WithManualErrors())
	if err != nil {
		return nil, err
	}
	if token.Value == "" {
		return nil, nil
	}
	return &token, nil
}

// SendBySMS requests a one-time verification code.
func (a *API) SendBySMS(ctx context.Context, mobile, scene string) error {
	return a.client.Post(ctx, "/verify-code/sms",
		sendCodeRequest{Mobile: mobile, Scene: scene},
		nil, apiclient.WithManualErrors())
}

// jwtExpired reports whether value is a well-formed JWT with an expiry in
// the past. Non-JWT values and JWTs without an exp claim report false; the
// server stays the authority for those.
func jwtExpired(value string, now time.Time) bool {
	token, _, err := jwt.NewParser().ParseUnverified(value, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
