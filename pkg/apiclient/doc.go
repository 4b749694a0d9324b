// Package apiclient wraps one HTTP transport with the request/response
// pipeline a session-aware client needs: automatic credential injection,
// GET cache-busting, bigint-safe JSON codecs, structured error
// classification with user-facing recovery, and content-disposition-aware
// file download.
//
// # Pipeline
//
// Outbound requests pass through an interceptor chain (http.RoundTripper
// middlewares): a request ID is attached, default headers are merged in
// (caller headers always win), the application token header is always set,
// the user access token header is set while a token is available, and GET
// requests gain `_t`/`_r` cache-busting query parameters.
//
// # Error recovery
//
// Failures carrying a structured server body are classified by code:
// LOGIN_REQUIRED (and the user-entity variants of SESSION_EXPIRED /
// INVALID_TOKEN) trigger a re-login confirmation that resets credentials
// and navigates to the login view; the app-entity variants and
// APP_AUTHENTICATION_REQUIRED raise blocking alerts; everything else raises
// a generic alert embedding the server message. Unstructured failures are
// synthesized into an ErrorInfo of type NETWORK_ERROR. Per-call opt-out via
// WithManualErrors returns the structured error with no UI side effects.
//
// # Configuration
//
// Required collaborators (loading indicator, alert, confirm, credential
// getter/reset, navigator) and required settings (base URL, app token) are
// validated before every outbound call and raise ErrNotConfigured
// synchronously; a missing collaborator is a programmer error, not a
// runtime failure.
package apiclient
