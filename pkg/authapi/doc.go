// Package authapi is the default HTTP client for the remote authentication
// backend. It satisfies session.AuthAPI and session.VerifyCodeAPI over a
// pkg/apiclient transport, so the full interceptor pipeline (credential
// headers, cache busting, bigint-safe codecs) applies to authentication
// traffic as well.
//
// Structured failures are returned to the caller instead of triggering the
// transport's automatic dialogs; the session layer decides how to react to
// its own requests failing.
package authapi
