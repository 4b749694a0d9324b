package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sessionlab/authkit/pkg/bigjson"
	"github.com/sessionlab/authkit/pkg/ui"
)

// User-facing texts for the automatic failure handling. These match the
// backend's audience language.
const (
	titleHint  = "提示"
	titleError = "错误"

	msgReloginPrompt = "您尚未登录或者登录已经过期，需要重新登录。"
	labelRelogin     = "重新登录"
	labelCancel      = "取消"

	msgAppSessionExpired = "当前应用的会话已过期，请与管理员联系。"
	msgAppTokenInvalid   = "当前应用的令牌无效，请与管理员联系。"
	msgAppAuthRequired   = "当前应用尚未认证，请与管理员联系。"
	msgUnknownError      = "发生未知错误，请与管理员联系。"
	msgContactAdmin      = "：请与管理员联系"
)

// Response is the raw result of a pipeline call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// Data holds the bigint-safe decoded body for JSON responses, nil
	// otherwise (binary mode, empty body, non-JSON content type).
	Data any
}

// Client is the interceptor pipeline around one HTTP transport: credential
// injection, cache busting, bigint-safe codecs, structured error recovery
// and file download.
type Client struct {
	http      *http.Client
	cfg       Config
	loading   ui.Loading
	alert     ui.Alert
	confirm   ui.Confirm
	navigator ui.Navigator
	tokenFunc TokenFunc
	resetFunc ResetFunc
	saver     Saver
	logger    *slog.Logger
}

// New creates a Client. Default settings are resolved here; required
// collaborators are validated on every outbound call, so a partially
// configured Client can be constructed and wired up later.
func New(cfg Config, opts ...Option) *Client {
	cfg.normalize()

	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{}
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// Wrap a copy so the caller's client is left untouched
	wrapped := *c.http
	wrapped.Transport = c.interceptors(base)
	c.http = &wrapped

	if c.saver == nil {
		c.saver = &DirSaver{Dir: c.cfg.DownloadDir}
	}

	return c
}

// Config returns the normalized configuration.
func (c *Client) Config() Config { return c.cfg }

// validate runs before every outbound call; a missing collaborator is a
// programmer error and surfaces immediately, before any network activity.
func (c *Client) validate() error {
	switch {
	case c.loading == nil:
		return missing("loading indicator")
	case c.alert == nil:
		return missing("alert dialog")
	case c.confirm == nil:
		return missing("confirm dialog")
	case c.tokenFunc == nil:
		return missing("credential getter")
	case c.resetFunc == nil:
		return missing("credential reset")
	case c.navigator == nil:
		return missing("navigator")
	case c.cfg.BaseURL == "":
		return missing("base API URL")
	case c.cfg.AppTokenValue == "":
		return missing("app token value")
	}
	return nil
}

// Do executes one request through the full pipeline and returns the raw
// response. Structured failures come back as *ErrorInfo after the automatic
// UI handling has run (unless WithManualErrors).
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...CallOption) (*Response, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	c.loading.Show(o.loadingMsg)

	target, err := c.resolveURL(path, o.query)
	if err != nil {
		return nil, c.fail(ctx, &o, &ErrorInfo{
			Type: TypeNetworkError, Code: CodeUnknown,
			Message: fmt.Sprintf("invalid request URL %q: %v", path, err),
		})
	}

	reqBody, err := c.encodeBody(body, &o)
	if err != nil {
		return nil, c.fail(ctx, &o, &ErrorInfo{
			Type: TypeNetworkError, Code: CodeUnknown,
			Message: "request body encoding failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, c.fail(ctx, &o, &ErrorInfo{
			Type: TypeNetworkError, Code: CodeUnknown,
			Message: "request construction failed: " + err.Error(),
		})
	}

	for key, values := range o.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if o.accept != "" {
		req.Header.Set("Accept", o.accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(ctx, &o, &ErrorInfo{
			Type: TypeNetworkError, Code: CodeUnknown, Message: err.Error(),
		})
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, &o, &ErrorInfo{
			Type: TypeNetworkError, Code: CodeUnknown,
			Message: "response read failed: " + err.Error(),
		})
	}

	if resp.StatusCode >= http.StatusBadRequest {
		info := parseErrorBody(data)
		if info == nil {
			info = &ErrorInfo{
				Type: TypeNetworkError, Code: CodeUnknown,
				Message: failureDiagnostic(resp.StatusCode, data),
			}
		}
		return nil, c.fail(ctx, &o, info)
	}

	response := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}

	if !o.binary && isJSON(resp.Header.Get("Content-Type")) && len(bytes.TrimSpace(data)) > 0 {
		var decoded any
		if err := bigjson.Unmarshal(data, &decoded); err != nil {
			return nil, c.fail(ctx, &o, &ErrorInfo{
				Type: TypeNetworkError, Code: CodeUnknown,
				Message: "malformed JSON response: " + err.Error(),
			})
		}
		response.Data = decoded
	}

	if !o.keepLoading {
		c.loading.Clear()
	}

	return response, nil
}

// Get performs a GET and decodes the JSON body into dest (dest may be nil).
func (c *Client) Get(ctx context.Context, path string, dest any, opts ...CallOption) error {
	resp, err := c.Do(ctx, http.MethodGet, path, nil, opts...)
	if err != nil {
		return err
	}
	return decodeInto(resp, dest)
}

// Post performs a POST with a JSON body and decodes the result into dest.
func (c *Client) Post(ctx context.Context, path string, body, dest any, opts ...CallOption) error {
	resp, err := c.Do(ctx, http.MethodPost, path, body, opts...)
	if err != nil {
		return err
	}
	return decodeInto(resp, dest)
}

// Put performs a PUT with a JSON body and decodes the result into dest.
func (c *Client) Put(ctx context.Context, path string, body, dest any, opts ...CallOption) error {
	resp, err := c.Do(ctx, http.MethodPut, path, body, opts...)
	if err != nil {
		return err
	}
	return decodeInto(resp, dest)
}

// Delete performs a DELETE and decodes the result into dest.
func (c *Client) Delete(ctx context.Context, path string, dest any, opts ...CallOption) error {
	resp, err := c.Do(ctx, http.MethodDelete, path, nil, opts...)
	if err != nil {
		return err
	}
	return decodeInto(resp, dest)
}

// fail is the single failure exit: the loading indicator is always cleared,
// automatic UI handling runs unless opted out, and the structured error is
// the returned value either way.
func (c *Client) fail(ctx context.Context, o *callOptions, info *ErrorInfo) error {
	c.loading.Clear()

	if o.manualErrors {
		return info
	}

	// The request context is often already dead here: the failure being
	// handled may be its own timeout or cancellation. The dialogs must
	// still reach the user.
	c.handle(context.WithoutCancel(ctx), info)
	return info
}

// handle dispatches a classified failure to its recovery behavior.
func (c *Client) handle(ctx context.Context, info *ErrorInfo) {
	switch info.Code {
	case CodeLoginRequired:
		c.reconfirmLogin(ctx)
	case CodeSessionExpired:
		switch info.Param("entity") {
		case "app":
			c.showAlert(ctx, msgAppSessionExpired)
		case "user":
			c.reconfirmLogin(ctx)
		default:
			c.alertUnknown(ctx, info)
		}
	case CodeInvalidToken:
		switch info.Param("entity") {
		case "app":
			c.showAlert(ctx, msgAppTokenInvalid)
		case "user":
			c.reconfirmLogin(ctx)
		default:
			c.alertUnknown(ctx, info)
		}
	case CodeAppAuthRequired:
		c.showAlert(ctx, msgAppAuthRequired)
	default:
		c.alertUnknown(ctx, info)
	}
}

// reconfirmLogin offers a re-login; on affirmation the credentials are reset
// and the user is routed to the login view.
func (c *Client) reconfirmLogin(ctx context.Context) {
	if err := c.confirm.Info(ctx, titleHint, msgReloginPrompt, labelRelogin, labelCancel); err != nil {
		return
	}

	c.resetFunc(ctx)

	if err := c.navigator.Push(ctx, c.cfg.LoginPage); err != nil {
		c.logger.ErrorContext(ctx, "apiclient: navigation to login view failed",
			"view", c.cfg.LoginPage, "error", err)
	}
}

func (c *Client) showAlert(ctx context.Context, message string) {
	if err := c.alert.Error(ctx, titleError, message); err != nil {
		c.logger.ErrorContext(ctx, "apiclient: alert failed", "error", err)
	}
}

func (c *Client) alertUnknown(ctx context.Context, info *ErrorInfo) {
	message := msgUnknownError
	if info.Message != "" {
		message = info.Message + msgContactAdmin
	}
	if len(info.Params) > 0 {
		if data, err := bigjson.Marshal(info.Params); err == nil {
			message += "\n" + string(data)
		}
	}
	c.showAlert(ctx, message)
}

func (c *Client) resolveURL(path string, query url.Values) (string, error) {
	var target *url.URL
	var err error

	if strings.Contains(path, "://") {
		target, err = url.Parse(path)
	} else {
		target, err = url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"))
	}
	if err != nil {
		return "", err
	}

	if len(query) > 0 {
		merged := target.Query()
		for key, values := range query {
			for _, value := range values {
				merged.Add(key, value)
			}
		}
		target.RawQuery = merged.Encode()
	}

	return target.String(), nil
}

// encodeBody turns the call body into a reader. Raw forms pass through
// unchanged; anything else goes through the bigint-safe JSON encoder.
func (c *Client) encodeBody(body any, o *callOptions) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	default:
		data, err := bigjson.Marshal(body)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}

// parseErrorBody returns the structured server error, or nil when the body
// carries none.
func parseErrorBody(data []byte) *ErrorInfo {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var info ErrorInfo
	if err := bigjson.Unmarshal(data, &info); err != nil || info.Code == "" {
		return nil
	}
	if info.Type == "" {
		info.Type = TypeServerError
	}
	return &info
}

// failureDiagnostic builds the best available human diagnostic for an
// unstructured failure.
func failureDiagnostic(statusCode int, body []byte) string {
	diag := fmt.Sprintf("request failed with status %d", statusCode)
	if text := strings.TrimSpace(string(body)); text != "" {
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		diag += ": " + strings.ReplaceAll(text, "\n", " ")
	}
	return diag
}

// decodeInto fills dest from a JSON body. Non-JSON payloads pass through
// on Response.Body untouched; dest stays zero-valued.
func decodeInto(resp *Response, dest any) error {
	if dest == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil
	}
	if err := bigjson.Unmarshal(resp.Body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}
