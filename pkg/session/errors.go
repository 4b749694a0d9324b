package session

import "errors"

var (
	// ErrNoAuthAPI indicates the Manager was constructed without an
	// authentication backend.
	ErrNoAuthAPI = errors.New("session.no_auth_api")

	// ErrNoVerifyCodeAPI indicates the Manager was constructed without a
	// verification-code backend.
	ErrNoVerifyCodeAPI = errors.New("session.no_verify_code_api")

	// ErrNoStore indicates the Manager was constructed without credential
	// storage.
	ErrNoStore = errors.New("session.no_store")

	// ErrNoConfirm indicates ConfirmLogin was called without a confirm
	// dialog wired in. Misconfiguration, not a runtime failure.
	ErrNoConfirm = errors.New("session.no_confirm_dialog")

	// ErrNoNavigator indicates ConfirmLogin was called without a navigator
	// wired in. Misconfiguration, not a runtime failure.
	ErrNoNavigator = errors.New("session.no_navigator")
)
