package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates a required collaborator or setting is missing.
	// Raised synchronously before any network activity.
	ErrNotConfigured = errors.New("apiclient.not_configured")

	// ErrSaveFailed indicates a downloaded blob could not be written out
	ErrSaveFailed = errors.New("apiclient.save_failed")
)

// Error types carried by ErrorInfo.
const (
	TypeNetworkError = "NETWORK_ERROR"
	TypeServerError  = "SERVER_ERROR"
)

// Server error codes with dedicated recovery behavior.
const (
	CodeUnknown         = "UNKNOWN"
	CodeLoginRequired   = "LOGIN_REQUIRED"
	CodeSessionExpired  = "SESSION_EXPIRED"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeAppAuthRequired = "APP_AUTHENTICATION_REQUIRED"
)

// Param disambiguates a structured error, e.g. {entity: app|user}.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ErrorInfo is a machine-readable failure: either a structured server error
// body or a locally synthesized network failure. It is transient and never
// persisted.
type ErrorInfo struct {
	Type    string  `json:"type"`
	Code    string  `json:"code"`
	Message string  `json:"message,omitempty"`
	Params  []Param `json:"params,omitempty"`
}

func (e *ErrorInfo) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s/%s: %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s/%s", e.Type, e.Code)
}

// Param returns the value of the named param, empty when absent.
func (e *ErrorInfo) Param(key string) string {
	for _, p := range e.Params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// AsErrorInfo extracts an *ErrorInfo from an error chain.
func AsErrorInfo(err error) (*ErrorInfo, bool) {
	var info *ErrorInfo
	if errors.As(err, &info) {
		return info, true
	}
	return nil, false
}

func missing(what string) error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, what)
}
