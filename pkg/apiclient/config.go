package apiclient

import (
	"os"
	"time"
)

// Defaults written back into the Config when the corresponding field is unset.
const (
	DefaultTimeout           = 60 * time.Second
	DefaultContentType       = "application/json;charset=UTF-8"
	DefaultAccept            = "application/json;charset=UTF-8"
	DefaultAppTokenHeader    = "X-Auth-App-Token"
	DefaultAccessTokenHeader = "X-Auth-User-Token"
	DefaultLoginPage         = "Login"
)

// Config holds the transport settings. BaseURL and AppTokenValue are
// required; everything else falls back to documented defaults.
type Config struct {
	// BaseURL is the API origin every relative request path is resolved against
	BaseURL string `env:"API_BASE_URL"`

	// AppTokenValue identifies this application to the backend
	AppTokenValue string `env:"APP_TOKEN_VALUE"`

	Timeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	ContentType string        `env:"HTTP_HEADER_CONTENT_TYPE" envDefault:"application/json;charset=UTF-8"`
	Accept      string        `env:"HTTP_HEADER_ACCEPT" envDefault:"application/json;charset=UTF-8"`

	AppTokenHeader    string `env:"APP_TOKEN_NAME" envDefault:"X-Auth-App-Token"`
	AccessTokenHeader string `env:"ACCESS_TOKEN_NAME" envDefault:"X-Auth-User-Token"`

	// LoginPage is the view name navigated to after a confirmed re-login
	LoginPage string `env:"LOGIN_PAGE" envDefault:"Login"`

	// DownloadDir receives auto-saved downloads (default: OS temp dir)
	DownloadDir string `env:"DOWNLOAD_DIR"`
}

// normalize writes defaults back so later calls skip default resolution.
func (c *Config) normalize() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ContentType == "" {
		c.ContentType = DefaultContentType
	}
	if c.Accept == "" {
		c.Accept = DefaultAccept
	}
	if c.AppTokenHeader == "" {
		c.AppTokenHeader = DefaultAppTokenHeader
	}
	if c.AccessTokenHeader == "" {
		c.AccessTokenHeader = DefaultAccessTokenHeader
	}
	if c.LoginPage == "" {
		c.LoginPage = DefaultLoginPage
	}
	if c.DownloadDir == "" {
		c.DownloadDir = os.TempDir()
	}
}
