package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sessionlab/authkit/pkg/ui"
)

// TokenFunc supplies the current access-token value, empty when logged out.
type TokenFunc func(ctx context.Context) string

// ResetFunc discards the current credentials. Invoked when the backend
// reports the user session is gone and the user confirms a re-login.
type ResetFunc func(ctx context.Context)

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (custom transports,
// proxies, testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLoading sets the loading-indicator collaborator.
func WithLoading(loading ui.Loading) Option {
	return func(c *Client) { c.loading = loading }
}

// WithAlert sets the alert collaborator.
func WithAlert(alert ui.Alert) Option {
	return func(c *Client) { c.alert = alert }
}

// WithConfirm sets the confirmation-dialog collaborator.
func WithConfirm(confirm ui.Confirm) Option {
	return func(c *Client) { c.confirm = confirm }
}

// WithNavigator sets the router collaborator.
func WithNavigator(navigator ui.Navigator) Option {
	return func(c *Client) { c.navigator = navigator }
}

// WithTokenFunc sets the credential getter.
func WithTokenFunc(fn TokenFunc) Option {
	return func(c *Client) { c.tokenFunc = fn }
}

// WithResetFunc sets the credential-reset callback.
func WithResetFunc(fn ResetFunc) Option {
	return func(c *Client) { c.resetFunc = fn }
}

// WithSaver replaces the blob saver used by Download auto-save.
func WithSaver(saver Saver) Option {
	return func(c *Client) { c.saver = saver }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type callOptions struct {
	headers      http.Header
	query        url.Values
	manualErrors bool
	keepLoading  bool
	binary       bool
	accept       string
	loadingMsg   string
}

// CallOption adjusts a single request.
type CallOption func(*callOptions)

// WithHeader adds a request header. Caller headers win over defaults.
func WithHeader(key, value string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Set(key, value)
	}
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) CallOption {
	return func(o *callOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		o.query.Set(key, value)
	}
}

// WithManualErrors bypasses automatic UI error handling; the structured
// error becomes the plain return value with no dialog side effects.
func WithManualErrors() CallOption {
	return func(o *callOptions) { o.manualErrors = true }
}

// WithKeepLoading skips the automatic loading-clear on success. Failures
// still clear the indicator unconditionally.
func WithKeepLoading() CallOption {
	return func(o *callOptions) { o.keepLoading = true }
}

// WithBinary disables JSON decoding of the response body.
func WithBinary() CallOption {
	return func(o *callOptions) { o.binary = true }
}

// WithAccept overrides the Accept header for this call.
func WithAccept(accept string) CallOption {
	return func(o *callOptions) { o.accept = accept }
}

// WithLoadingMessage sets the text shown by the loading indicator.
func WithLoadingMessage(message string) CallOption {
	return func(o *callOptions) { o.loadingMsg = message }
}
