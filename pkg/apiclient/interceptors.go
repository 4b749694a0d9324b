package apiclient

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// interceptors returns the outbound middleware chain, innermost last:
// request ID, header fix-up, GET cache-busting.
func (c *Client) interceptors(base http.RoundTripper) http.RoundTripper {
	rt := c.cacheBustInterceptor(base)
	rt = c.headerInterceptor(rt)
	rt = c.requestIDInterceptor(rt)
	return rt
}

// headerInterceptor merges default headers into the request. Caller-supplied
// headers always win; defaults fill the gaps.
func (c *Client) headerInterceptor(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())

		if req.Header.Get("Content-Type") == "" && req.Body != nil {
			req.Header.Set("Content-Type", c.cfg.ContentType)
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", c.cfg.Accept)
		}
		if req.Header.Get(c.cfg.AppTokenHeader) == "" && c.cfg.AppTokenValue != "" {
			req.Header.Set(c.cfg.AppTokenHeader, c.cfg.AppTokenValue)
		}
		if req.Header.Get(c.cfg.AccessTokenHeader) == "" && c.tokenFunc != nil {
			if token := c.tokenFunc(req.Context()); token != "" {
				req.Header.Set(c.cfg.AccessTokenHeader, token)
			}
		}

		return next.RoundTrip(req)
	})
}

// cacheBustInterceptor adds _t (epoch millis) and _r (random fraction) to
// GET queries. Caller parameters of the same name are never overwritten.
func (c *Client) cacheBustInterceptor(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet {
			return next.RoundTrip(req)
		}

		req = req.Clone(req.Context())
		query := req.URL.Query()
		if !query.Has("_t") {
			query.Set("_t", strconv.FormatInt(time.Now().UnixMilli(), 10))
		}
		if !query.Has("_r") {
			query.Set("_r", fmt.Sprintf("%.17f", rand.Float64()))
		}
		req.URL.RawQuery = query.Encode()

		return next.RoundTrip(req)
	})
}

// requestIDInterceptor tags each request for log correlation.
func (c *Client) requestIDInterceptor(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("X-Request-Id") == "" {
			req = req.Clone(req.Context())
			req.Header.Set("X-Request-Id", uuid.NewString())
		}
		return next.RoundTrip(req)
	})
}
