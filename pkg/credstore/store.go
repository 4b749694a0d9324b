package credstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sessionlab/authkit/pkg/bigjson"
)

// Field names appended to the app-code prefix.
const (
	fieldUsername     = "username"
	fieldPassword     = "password"
	fieldSaveLogin    = "save_login"
	fieldUser         = "user_info"
	fieldPrivileges   = "privileges"
	fieldRoles        = "roles"
	fieldOrganization = "organization"
	fieldAvatar       = "avatar"
	fieldToken        = "token"
)

// DefaultTokenTTL matches the historical 1000-day cookie expiry.
const DefaultTokenTTL = 1000 * 24 * time.Hour

// Store is the namespaced persistence façade. Profile fields go to the
// durable backend; the token record goes to the expiring backend with the
// configured TTL.
type Store struct {
	appCode  string
	durable  Backend
	tokens   Backend
	tokenTTL time.Duration
	logger   *slog.Logger
}

// Option configures a Store during construction.
type Option func(*Store)

// WithTokenTTL overrides the token expiry (default 1000 days).
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithLogger sets the logger used for non-fatal storage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store namespaced by appCode. The tokens backend may be nil,
// in which case the token record shares the durable backend.
func New(appCode string, durable, tokens Backend, opts ...Option) (*Store, error) {
	if appCode == "" {
		return nil, ErrNoAppCode
	}
	if durable == nil {
		return nil, ErrNoBackend
	}
	if tokens == nil {
		tokens = durable
	}

	s := &Store{
		appCode:  appCode,
		durable:  durable,
		tokens:   tokens,
		tokenTTL: DefaultTokenTTL,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Store) key(field string) string {
	return s.appCode + "." + field
}

func (s *Store) storeString(ctx context.Context, field, value string) error {
	return s.durable.Set(ctx, s.key(field), value, 0)
}

func (s *Store) loadString(ctx context.Context, field string) (string, error) {
	return s.durable.Get(ctx, s.key(field))
}

func (s *Store) remove(ctx context.Context, field string) error {
	return s.durable.Remove(ctx, s.key(field))
}

func (s *Store) storeJSON(ctx context.Context, field string, value any) error {
	data, err := bigjson.Marshal(value)
	if err != nil {
		return err
	}
	return s.durable.Set(ctx, s.key(field), string(data), 0)
}

func (s *Store) loadJSON(ctx context.Context, field string, dest any) error {
	data, err := s.durable.Get(ctx, s.key(field))
	if err != nil {
		return err
	}
	return bigjson.Unmarshal([]byte(data), dest)
}

// StoreUsername persists the login username
func (s *Store) StoreUsername(ctx context.Context, username string) error {
	return s.storeString(ctx, fieldUsername, username)
}

// LoadUsername retrieves the persisted username, ErrNotFound when absent
func (s *Store) LoadUsername(ctx context.Context) (string, error) {
	return s.loadString(ctx, fieldUsername)
}

// RemoveUsername deletes the persisted username
func (s *Store) RemoveUsername(ctx context.Context) error {
	return s.remove(ctx, fieldUsername)
}

// StorePassword persists the login password
func (s *Store) StorePassword(ctx context.Context, password string) error {
	return s.storeString(ctx, fieldPassword, password)
}

// LoadPassword retrieves the persisted password, ErrNotFound when absent
func (s *Store) LoadPassword(ctx context.Context) (string, error) {
	return s.loadString(ctx, fieldPassword)
}

// RemovePassword deletes the persisted password
func (s *Store) RemovePassword(ctx context.Context) error {
	return s.remove(ctx, fieldPassword)
}

// StoreAvatar persists the avatar URL
func (s *Store) StoreAvatar(ctx context.Context, avatar string) error {
	return s.storeString(ctx, fieldAvatar, avatar)
}

// LoadAvatar retrieves the persisted avatar URL, ErrNotFound when absent
func (s *Store) LoadAvatar(ctx context.Context) (string, error) {
	return s.loadString(ctx, fieldAvatar)
}

// RemoveAvatar deletes the persisted avatar URL
func (s *Store) RemoveAvatar(ctx context.Context) error {
	return s.remove(ctx, fieldAvatar)
}

// StoreSaveLogin persists the remember-login preference
func (s *Store) StoreSaveLogin(ctx context.Context, save bool) error {
	value := "false"
	if save {
		value = "true"
	}
	return s.storeString(ctx, fieldSaveLogin, value)
}

// LoadSaveLogin retrieves the remember-login preference, ErrNotFound when absent
func (s *Store) LoadSaveLogin(ctx context.Context) (bool, error) {
	value, err := s.loadString(ctx, fieldSaveLogin)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// RemoveSaveLogin deletes the remember-login preference
func (s *Store) RemoveSaveLogin(ctx context.Context) error {
	return s.remove(ctx, fieldSaveLogin)
}

// StoreUser persists the user profile as JSON
func (s *Store) StoreUser(ctx context.Context, user *User) error {
	if user == nil {
		return s.RemoveUser(ctx)
	}
	return s.storeJSON(ctx, fieldUser, user)
}

// LoadUser retrieves the persisted user profile, ErrNotFound when absent
func (s *Store) LoadUser(ctx context.Context) (*User, error) {
	var user User
	if err := s.loadJSON(ctx, fieldUser, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RemoveUser deletes the persisted user profile
func (s *Store) RemoveUser(ctx context.Context) error {
	return s.remove(ctx, fieldUser)
}

// StorePrivileges persists the privilege list. Nil is stored as an empty
// list so a read never resurrects a previous session's privileges.
func (s *Store) StorePrivileges(ctx context.Context, privileges []string) error {
	if privileges == nil {
		privileges = []string{}
	}
	return s.storeJSON(ctx, fieldPrivileges, privileges)
}

// LoadPrivileges retrieves the persisted privilege list, ErrNotFound when absent
func (s *Store) LoadPrivileges(ctx context.Context) ([]string, error) {
	var privileges []string
	if err := s.loadJSON(ctx, fieldPrivileges, &privileges); err != nil {
		return nil, err
	}
	return privileges, nil
}

// RemovePrivileges deletes the persisted privilege list
func (s *Store) RemovePrivileges(ctx context.Context) error {
	return s.remove(ctx, fieldPrivileges)
}

// StoreRoles persists the role list, nil stored as empty
func (s *Store) StoreRoles(ctx context.Context, roles []string) error {
	if roles == nil {
		roles = []string{}
	}
	return s.storeJSON(ctx, fieldRoles, roles)
}

// LoadRoles retrieves the persisted role list, ErrNotFound when absent
func (s *Store) LoadRoles(ctx context.Context) ([]string, error) {
	var roles []string
	if err := s.loadJSON(ctx, fieldRoles, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// RemoveRoles deletes the persisted role list
func (s *Store) RemoveRoles(ctx context.Context) error {
	return s.remove(ctx, fieldRoles)
}

// StoreOrganization persists the organization object, nil removes it
func (s *Store) StoreOrganization(ctx context.Context, org Organization) error {
	if org == nil {
		return s.RemoveOrganization(ctx)
	}
	return s.storeJSON(ctx, fieldOrganization, org)
}

// LoadOrganization retrieves the persisted organization, ErrNotFound when absent
func (s *Store) LoadOrganization(ctx context.Context) (Organization, error) {
	var org Organization
	if err := s.loadJSON(ctx, fieldOrganization, &org); err != nil {
		return nil, err
	}
	return org, nil
}

// RemoveOrganization deletes the persisted organization
func (s *Store) RemoveOrganization(ctx context.Context) error {
	return s.remove(ctx, fieldOrganization)
}

// StoreToken persists the token record into the expiring backend
func (s *Store) StoreToken(ctx context.Context, token *Token) error {
	if token == nil {
		return s.RemoveToken(ctx)
	}
	data, err := bigjson.Marshal(token)
	if err != nil {
		return err
	}
	return s.tokens.Set(ctx, s.key(fieldToken), string(data), s.tokenTTL)
}

// LoadToken retrieves the persisted token record, ErrNotFound when absent
func (s *Store) LoadToken(ctx context.Context) (*Token, error) {
	data, err := s.tokens.Get(ctx, s.key(fieldToken))
	if err != nil {
		return nil, err
	}
	var token Token
	if err := bigjson.Unmarshal([]byte(data), &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// RemoveToken deletes the persisted token record
func (s *Store) RemoveToken(ctx context.Context) error {
	return s.tokens.Remove(ctx, s.key(fieldToken))
}

// HasTokenValue reports whether a token with a non-empty value is persisted
func (s *Store) HasTokenValue(ctx context.Context) bool {
	return s.LoadTokenValue(ctx) != ""
}

// LoadTokenValue is a convenience read of the persisted token's value.
// Storage failures degrade to an empty value; callers treat both identically.
func (s *Store) LoadTokenValue(ctx context.Context) string {
	token, err := s.LoadToken(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "credstore: token read failed", "error", err)
		}
		return ""
	}
	return token.Value
}

// StoreUserInfo fans the grouped profile entities out to their field ops
func (s *Store) StoreUserInfo(ctx context.Context, info UserInfo) error {
	if err := s.StoreUser(ctx, info.User); err != nil {
		return err
	}
	if err := s.StorePrivileges(ctx, info.Privileges); err != nil {
		return err
	}
	if err := s.StoreRoles(ctx, info.Roles); err != nil {
		return err
	}
	return s.StoreOrganization(ctx, info.Organization)
}

// LoadUserInfo loads the grouped profile entities. Absent fields come back
// zero-valued; only backend failures produce an error.
func (s *Store) LoadUserInfo(ctx context.Context) (UserInfo, error) {
	var info UserInfo
	var err error

	if info.User, err = s.LoadUser(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return UserInfo{}, err
	}
	if info.Privileges, err = s.LoadPrivileges(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return UserInfo{}, err
	}
	if info.Roles, err = s.LoadRoles(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return UserInfo{}, err
	}
	if info.Organization, err = s.LoadOrganization(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return UserInfo{}, err
	}

	return info, nil
}

// RemoveUserInfo deletes the grouped profile entities
func (s *Store) RemoveUserInfo(ctx context.Context) error {
	if err := s.RemoveUser(ctx); err != nil {
		return err
	}
	if err := s.RemovePrivileges(ctx); err != nil {
		return err
	}
	if err := s.RemoveRoles(ctx); err != nil {
		return err
	}
	return s.RemoveOrganization(ctx)
}

// StoreLoginBundle persists everything a successful login produces
func (s *Store) StoreLoginBundle(ctx context.Context, bundle LoginBundle) error {
	if err := s.StoreUserInfo(ctx, bundle.UserInfo); err != nil {
		return err
	}
	return s.StoreToken(ctx, bundle.Token)
}

// LoadLoginBundle loads the persisted login state, absent fields zero-valued
func (s *Store) LoadLoginBundle(ctx context.Context) (LoginBundle, error) {
	info, err := s.LoadUserInfo(ctx)
	if err != nil {
		return LoginBundle{}, err
	}

	bundle := LoginBundle{UserInfo: info}
	if bundle.Token, err = s.LoadToken(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return LoginBundle{}, err
	}

	return bundle, nil
}

// RemoveLoginBundle deletes the whole persisted login state, token included.
// The token goes first so a concurrent read cannot observe a valid token
// alongside half-removed profile data.
func (s *Store) RemoveLoginBundle(ctx context.Context) error {
	if err := s.RemoveToken(ctx); err != nil {
		return err
	}
	if err := s.RemoveUsername(ctx); err != nil {
		return err
	}
	if err := s.RemovePassword(ctx); err != nil {
		return err
	}
	if err := s.RemoveSaveLogin(ctx); err != nil {
		return err
	}
	if err := s.RemoveAvatar(ctx); err != nil {
		return err
	}
	return s.RemoveUserInfo(ctx)
}
