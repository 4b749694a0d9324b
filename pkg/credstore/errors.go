package credstore

import "errors"

var (
	// ErrNotFound indicates the requested key holds no value
	ErrNotFound = errors.New("credstore.not_found")

	// ErrNoAppCode indicates a Store was constructed without an application code
	ErrNoAppCode = errors.New("credstore.no_app_code")

	// ErrNoBackend indicates a Store was constructed without a storage backend
	ErrNoBackend = errors.New("credstore.no_backend")
)
