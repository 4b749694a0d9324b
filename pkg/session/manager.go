package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sessionlab/authkit/pkg/credstore"
	"github.com/sessionlab/authkit/pkg/ui"
)

// User-facing texts for the re-login flow.
const (
	titleHint        = "提示"
	msgReloginPrompt = "您尚未登录或者登录已经过期，需要重新登录。"
	labelRelogin     = "重新登录"
	labelCancel      = "取消"
)

// sceneLogin tags SMS verification codes sent for the login flow.
const sceneLogin = "LOGIN"

// Manager is the stateful session object: it mirrors login state to
// credential storage and drives the login, logout and session-restore
// protocols against the remote authentication backend.
//
// All state mutation is serialized behind one mutex, so overlapping
// session operations never observe a half-applied transition.
type Manager struct {
	api          AuthAPI
	codes        VerifyCodeAPI
	store        *credstore.Store
	cfg          Config
	deviceLoader DeviceTokenLoader
	confirm      ui.Confirm
	navigator    ui.Navigator
	logger       *slog.Logger

	// tokenValue mirrors token.Value lock-free, so the transport's
	// credential getter can read it while a session operation holds mu.
	tokenValue atomic.Value

	mu            sync.Mutex
	user          *credstore.User
	password      string
	saveLogin     bool
	socialNetwork string
	appID         string
	openID        string
	token         *credstore.Token
	privileges    []string
	roles         []string
	organization  credstore.Organization
}

// NewManager creates a Manager and eagerly hydrates its state from
// credential storage. Missing collaborators are programmer errors and fail
// construction.
func NewManager(ctx context.Context, api AuthAPI, codes VerifyCodeAPI, store *credstore.Store, cfg Config, opts ...Option) (*Manager, error) {
	if api == nil {
		return nil, ErrNoAuthAPI
	}
	if codes == nil {
		return nil, ErrNoVerifyCodeAPI
	}
	if store == nil {
		return nil, ErrNoStore
	}

	cfg.normalize()

	m := &Manager{
		api:           api,
		codes:         codes,
		store:         store,
		cfg:           cfg,
		socialNetwork: cfg.SocialNetwork,
		appID:         cfg.SocialNetworkAppID,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.hydrate(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

// hydrate loads whatever a previous session persisted. Absent values are
// normal; only backend failures surface.
func (m *Manager) hydrate(ctx context.Context) error {
	bundle, err := m.store.LoadLoginBundle(ctx)
	if err != nil {
		return err
	}
	m.user = bundle.User
	m.privileges = bundle.Privileges
	m.roles = bundle.Roles
	m.organization = bundle.Organization
	m.setTokenInMemory(bundle.Token)

	if password, err := m.store.LoadPassword(ctx); err == nil {
		m.password = password
	} else if !errors.Is(err, credstore.ErrNotFound) {
		return err
	}

	if save, err := m.store.LoadSaveLogin(ctx); err == nil {
		m.saveLogin = save
	} else if !errors.Is(err, credstore.ErrNotFound) {
		return err
	}

	return nil
}

// LoggedIn reports whether the session currently holds a usable token.
func (m *Manager) LoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token.IsValid()
}

// User returns a copy of the current profile, nil when absent.
func (m *Manager) User() *credstore.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Token returns a copy of the current token, nil when absent.
func (m *Manager) Token() *credstore.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil
	}
	t := *m.token
	return &t
}

// TokenValue returns the current token value, empty when logged out. Shaped
// to plug directly into the transport pipeline's credential getter; reads
// are lock-free so the transport can consult it while a session operation
// is in flight.
func (m *Manager) TokenValue(context.Context) string {
	value, _ := m.tokenValue.Load().(string)
	return value
}

func (m *Manager) setTokenInMemory(token *credstore.Token) {
	m.token = token
	if token == nil {
		m.tokenValue.Store("")
		return
	}
	m.tokenValue.Store(token.Value)
}

// SaveLogin reports the remember-login preference.
func (m *Manager) SaveLogin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLogin
}

// Privileges returns the current privilege list.
func (m *Manager) Privileges() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.privileges...)
}

// Roles returns the current role list.
func (m *Manager) Roles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.roles...)
}

// Organization returns the current organization object.
func (m *Manager) Organization() credstore.Organization {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.organization
}

// OpenID returns the social identity triple recorded by the last open-id
// login or bind.
func (m *Manager) OpenID() (network, appID, openID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.socialNetwork, m.appID, m.openID
}

// persistOrEvict is the uniform setter persistence rule: write through when
// the login is remembered, otherwise actively remove the stale persisted
// value so it cannot leak into the next session.
func (m *Manager) persistOrEvict(store, remove func() error) error {
	if m.saveLogin {
		return store()
	}
	return remove()
}

func (m *Manager) ensureUserExist() *credstore.User {
	if m.user == nil {
		m.user = &credstore.User{}
	}
	return m.user
}

func (m *Manager) persistUser(ctx context.Context) error {
	return m.persistOrEvict(
		func() error { return m.store.StoreUser(ctx, m.user) },
		func() error { return m.store.RemoveUser(ctx) },
	)
}

// SetSaveLogin sets the remember-login preference.
func (m *Manager) SetSaveLogin(ctx context.Context, save bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setSaveLogin(ctx, save)
}

func (m *Manager) setSaveLogin(ctx context.Context, save bool) error {
	m.saveLogin = save
	return m.persistOrEvict(
		func() error { return m.store.StoreSaveLogin(ctx, save) },
		func() error { return m.store.RemoveSaveLogin(ctx) },
	)
}

// SetPassword sets the login password.
func (m *Manager) SetPassword(ctx context.Context, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setPassword(ctx, password)
}

func (m *Manager) setPassword(ctx context.Context, password string) error {
	m.password = password
	return m.persistOrEvict(
		func() error { return m.store.StorePassword(ctx, password) },
		func() error { return m.store.RemovePassword(ctx) },
	)
}

// SetUsername sets the profile username.
func (m *Manager) SetUsername(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setUsername(ctx, username)
}

func (m *Manager) setUsername(ctx context.Context, username string) error {
	m.ensureUserExist().Username = username
	if err := m.persistOrEvict(
		func() error { return m.store.StoreUsername(ctx, username) },
		func() error { return m.store.RemoveUsername(ctx) },
	); err != nil {
		return err
	}
	return m.persistUser(ctx)
}

// SetUserID sets the profile identifier.
func (m *Manager) SetUserID(ctx context.Context, id credstore.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureUserExist().ID = id
	return m.persistUser(ctx)
}

// SetNickname sets the profile nickname.
func (m *Manager) SetNickname(ctx context.Context, nickname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureUserExist().Nickname = nickname
	return m.persistUser(ctx)
}

// SetName sets the profile display name.
func (m *Manager) SetName(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureUserExist().Name = name
	return m.persistUser(ctx)
}

// SetGender sets the profile gender.
func (m *Manager) SetGender(ctx context.Context, gender credstore.Gender) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureUserExist().Gender = gender
	return m.persistUser(ctx)
}

// SetMobile sets the profile mobile number.
func (m *Manager) SetMobile(ctx context.Context, mobile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setMobile(ctx, mobile)
}

func (m *Manager) setMobile(ctx context.Context, mobile string) error {
	m.ensureUserExist().Mobile = mobile
	return m.persistUser(ctx)
}

// SetAvatar sets the profile avatar. Unlike the other profile setters the
// avatar is persisted regardless of the remember-login preference; it is
// treated as non-sensitive.
func (m *Manager) SetAvatar(ctx context.Context, avatar string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setAvatar(ctx, avatar)
}

func (m *Manager) setAvatar(ctx context.Context, avatar string) error {
	m.ensureUserExist().Avatar = avatar
	if err := m.store.StoreAvatar(ctx, avatar); err != nil {
		return err
	}
	return m.persistUser(ctx)
}

// SetPrivileges sets the privilege list.
func (m *Manager) SetPrivileges(ctx context.Context, privileges []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setPrivileges(ctx, privileges)
}

func (m *Manager) setPrivileges(ctx context.Context, privileges []string) error {
	m.privileges = privileges
	return m.persistOrEvict(
		func() error { return m.store.StorePrivileges(ctx, privileges) },
		func() error { return m.store.RemovePrivileges(ctx) },
	)
}

// SetRoles sets the role list.
func (m *Manager) SetRoles(ctx context.Context, roles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setRoles(ctx, roles)
}

func (m *Manager) setRoles(ctx context.Context, roles []string) error {
	m.roles = roles
	return m.persistOrEvict(
		func() error { return m.store.StoreRoles(ctx, roles) },
		func() error { return m.store.RemoveRoles(ctx) },
	)
}

// SetOrganization sets the organization object.
func (m *Manager) SetOrganization(ctx context.Context, org credstore.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setOrganization(ctx, org)
}

func (m *Manager) setOrganization(ctx context.Context, org credstore.Organization) error {
	m.organization = org
	return m.persistOrEvict(
		func() error { return m.store.StoreOrganization(ctx, org) },
		func() error { return m.store.RemoveOrganization(ctx) },
	)
}

// SetToken replaces the current token. Storing respects the remember-login
// preference; a nil token always clears durable storage.
func (m *Manager) SetToken(ctx context.Context, token *credstore.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setToken(ctx, token)
}

func (m *Manager) setToken(ctx context.Context, token *credstore.Token) error {
	m.setTokenInMemory(token)
	if token == nil {
		return m.store.RemoveToken(ctx)
	}
	return m.persistOrEvict(
		func() error { return m.store.StoreToken(ctx, token) },
		func() error { return m.store.RemoveToken(ctx) },
	)
}

// RemoveToken clears the current token. Durable removal is unconditional:
// logout must always clear the persisted token even when the login is not
// remembered.
func (m *Manager) RemoveToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeToken(ctx)
}

func (m *Manager) removeToken(ctx context.Context) error {
	m.setTokenInMemory(nil)
	return m.store.RemoveToken(ctx)
}

// RefreshAvatar assigns a configured default avatar keyed by gender when
// the profile has a gender but no avatar. No-op otherwise.
func (m *Manager) RefreshAvatar(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshAvatar(ctx)
}

func (m *Manager) refreshAvatar(ctx context.Context) error {
	if m.user == nil || m.user.Avatar != "" || m.user.Gender == "" {
		return nil
	}

	var avatar string
	switch m.user.Gender {
	case credstore.GenderMale:
		avatar = m.cfg.DefaultAvatarMale
	case credstore.GenderFemale:
		avatar = m.cfg.DefaultAvatarFemale
	}

	return m.setAvatar(ctx, avatar)
}

// MergeUserInfo fills the currently-empty profile fields from info. Existing
// non-empty values are never overwritten, so partial data from secondary
// sources cannot clobber richer data already present.
func (m *Manager) MergeUserInfo(ctx context.Context, info *credstore.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if info == nil {
		return nil
	}
	m.mergeUserInfo(info)
	if err := m.refreshAvatar(ctx); err != nil {
		return err
	}
	return m.persistUser(ctx)
}

func (m *Manager) mergeUserInfo(info *credstore.User) {
	u := m.ensureUserExist()
	if u.Username == "" {
		u.Username = info.Username
	}
	if u.Name == "" {
		u.Name = info.Name
	}
	if u.Nickname == "" {
		u.Nickname = info.Nickname
	}
	if u.Gender == "" {
		u.Gender = info.Gender
	}
	if u.Avatar == "" {
		u.Avatar = info.Avatar
	}
	if u.Mobile == "" {
		u.Mobile = info.Mobile
	}
}

// SetLoginResponse applies a successful authentication result wholesale:
// profile, token, privileges, roles and organization, followed by an avatar
// refresh. The single point of truth for "a login just succeeded".
func (m *Manager) SetLoginResponse(ctx context.Context, resp *LoginResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLoginResponse(ctx, resp)
}

func (m *Manager) setLoginResponse(ctx context.Context, resp *LoginResponse) error {
	if resp == nil {
		return nil
	}

	if resp.User != nil {
		u := m.ensureUserExist()
		if !resp.User.ID.IsZero() {
			u.ID = resp.User.ID
		}
		m.mergeUserInfo(resp.User)
	}

	if err := m.setPrivileges(ctx, resp.Privileges); err != nil {
		return err
	}
	if err := m.setRoles(ctx, resp.Roles); err != nil {
		return err
	}
	if err := m.setOrganization(ctx, resp.Organization); err != nil {
		return err
	}

	// A profile refresh may omit the token; applying nil here would log the
	// session out, so the token only changes when one is actually supplied.
	if resp.Token != nil {
		if err := m.setToken(ctx, resp.Token); err != nil {
			return err
		}
	}

	if err := m.refreshAvatar(ctx); err != nil {
		return err
	}
	return m.persistUser(ctx)
}

// IsTokenValid revalidates a credential against the backend. Any failure,
// including transport errors, means invalid; token invalidity is a normal
// outcome, never an error.
func (m *Manager) IsTokenValid(ctx context.Context, userID credstore.UserID, tokenValue string) bool {
	if userID.IsZero() || tokenValue == "" {
		return false
	}

	token, err := m.api.CheckToken(ctx, userID, tokenValue)
	if err != nil {
		m.logger.DebugContext(ctx, "session: token check failed", "error", err)
		return false
	}
	return token.IsValid()
}

// LoadToken restores a previous session: first from the device-native
// source when one is installed, then from persisted storage. A restored
// token is revalidated against the backend before it is trusted, and the
// authoritative profile is pulled from the remote API; local storage is a
// cache of last resort. Returns nil without error when nothing is
// restorable.
func (m *Manager) LoadToken(ctx context.Context) (*credstore.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deviceLoader != nil {
		if token, ok := m.deviceLoader(ctx); ok && token.IsValid() {
			if err := m.setToken(ctx, token); err != nil {
				return nil, err
			}
			if err := m.refreshLoginInfo(ctx); err != nil {
				return nil, err
			}
			return token, nil
		}
	}

	return m.loadTokenFromStorage(ctx)
}

func (m *Manager) loadTokenFromStorage(ctx context.Context) (*credstore.Token, error) {
	// Hydrate whatever the previous session left behind; username and
	// password feed the next login form even when the token turns out dead.
	if user, err := m.store.LoadUser(ctx); err == nil && user.Username != "" {
		m.user = user
	} else if err != nil && !errors.Is(err, credstore.ErrNotFound) {
		return nil, err
	}

	if password, err := m.store.LoadPassword(ctx); err == nil {
		m.password = password
	} else if !errors.Is(err, credstore.ErrNotFound) {
		return nil, err
	}

	if save, err := m.store.LoadSaveLogin(ctx); err == nil {
		m.saveLogin = save
	} else if !errors.Is(err, credstore.ErrNotFound) {
		return nil, err
	}

	token, err := m.store.LoadToken(ctx)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if m.user == nil || m.user.ID.IsZero() || !token.IsValid() {
		return nil, nil
	}

	if !m.IsTokenValid(ctx, m.user.ID, token.Value) {
		// Dead credential: purge the whole persisted bundle so it cannot
		// be retried on the next launch.
		if err := m.store.RemoveLoginBundle(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	m.setTokenInMemory(token)
	if err := m.refreshLoginInfo(ctx); err != nil {
		return nil, err
	}
	return token, nil
}

// RefreshLoginInfo pulls the authoritative profile from the backend and
// applies it over the current state.
func (m *Manager) RefreshLoginInfo(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshLoginInfo(ctx)
}

func (m *Manager) refreshLoginInfo(ctx context.Context) error {
	resp, err := m.api.GetLoginInfo(ctx)
	if err != nil {
		return err
	}
	return m.setLoginResponse(ctx, resp)
}

// LoginByUsername authenticates with a username/password pair. The stored
// token is cleared before the call so the transport cannot attach a stale
// credential to the login request itself.
func (m *Manager) LoginByUsername(ctx context.Context, username, password string, saveLogin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setSaveLogin(ctx, saveLogin); err != nil {
		return err
	}
	if err := m.setUsername(ctx, username); err != nil {
		return err
	}
	if err := m.setPassword(ctx, password); err != nil {
		return err
	}
	if err := m.removeToken(ctx); err != nil {
		return err
	}

	resp, err := m.api.LoginByUsername(ctx, username, password)
	if err != nil {
		return err
	}
	return m.setLoginResponse(ctx, resp)
}

// LoginByMobile authenticates with a mobile number and an SMS code.
func (m *Manager) LoginByMobile(ctx context.Context, mobile, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setMobile(ctx, mobile); err != nil {
		return err
	}
	if err := m.removeToken(ctx); err != nil {
		return err
	}

	resp, err := m.api.LoginByMobile(ctx, mobile, code)
	if err != nil {
		return err
	}
	return m.setLoginResponse(ctx, resp)
}

// LoginByOpenID authenticates with a social identity. The identity triple
// is session-scoped, never persisted; the host supplies it on each launch.
func (m *Manager) LoginByOpenID(ctx context.Context, network, appID, openID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.socialNetwork = network
	m.appID = appID
	m.openID = openID

	if err := m.removeToken(ctx); err != nil {
		return err
	}

	resp, err := m.api.LoginByOpenID(ctx, network, appID, openID)
	if err != nil {
		return err
	}
	return m.setLoginResponse(ctx, resp)
}

// BindOpenID attaches a social identity to the current account.
func (m *Manager) BindOpenID(ctx context.Context, network, appID, openID string) error {
	if err := m.api.BindOpenID(ctx, network, appID, openID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.socialNetwork = network
	m.appID = appID
	m.openID = openID
	return nil
}

// Logout ends the session on the backend, then locally. The token is
// removed before the rest of the state so a concurrent read cannot observe
// a valid-looking token alongside half-reset state.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.api.Logout(ctx); err != nil {
		return err
	}
	if err := m.removeToken(ctx); err != nil {
		return err
	}
	m.reset()
	return nil
}

// ResetToken is the local-only tail of Logout: used when a credential is
// discovered invalid without a server round trip. Shaped to plug directly
// into the transport pipeline's reset callback.
func (m *Manager) ResetToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.removeToken(ctx); err != nil {
		return err
	}
	m.reset()
	return nil
}

func (m *Manager) reset() {
	m.user = nil
	m.password = ""
	m.saveLogin = false
	m.setTokenInMemory(nil)
	m.privileges = nil
	m.roles = nil
	m.organization = nil
	m.socialNetwork = m.cfg.SocialNetwork
	m.appID = m.cfg.SocialNetworkAppID
	m.openID = ""
}

// ConfirmLogin offers a re-login; on affirmation the local session is reset
// and the user is routed to the login view. A missing dialog or navigator
// is a misconfiguration and fails loudly.
func (m *Manager) ConfirmLogin(ctx context.Context) error {
	if m.confirm == nil {
		return ErrNoConfirm
	}
	if m.navigator == nil {
		return ErrNoNavigator
	}

	if err := m.confirm.Info(ctx, titleHint, msgReloginPrompt, labelRelogin, labelCancel); err != nil {
		return err
	}

	if err := m.ResetToken(ctx); err != nil {
		return err
	}
	return m.navigator.Push(ctx, m.cfg.LoginPage)
}

// SendLoginVerifyCode requests an SMS verification code for the login flow.
func (m *Manager) SendLoginVerifyCode(ctx context.Context, mobile string) error {
	return m.codes.SendBySMS(ctx, mobile, sceneLogin)
}
