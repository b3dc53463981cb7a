package imgur

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL       = "https://api.imgur.com"
	defaultAuthorizeURL = "https://api.imgur.com/oauth2/authorize"
	//nolint:gosec // OAuth endpoint URL, not a credential.
	defaultTokenURL = "https://api.imgur.com/oauth2/token"

	albumLinkBase = "https://imgur.com/a/"
)

// Endpoints locates the Imgur API.
type Endpoints struct {
	APIURL       string
	AuthorizeURL string
	TokenURL     string

	// HTTPTimeout of zero leaves the transport default in place.
	HTTPTimeout time.Duration
}

// DefaultEndpoints returns the public Imgur endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		APIURL:       defaultAPIURL,
		AuthorizeURL: defaultAuthorizeURL,
		TokenURL:     defaultTokenURL,
	}
}

// LoadEndpoints returns the default endpoints with any IMGUP_* environment
// overrides applied. A .env file in the working directory is loaded first
// when present.
func LoadEndpoints() Endpoints {
	_ = godotenv.Load()

	e := DefaultEndpoints()

	if v := strings.TrimSpace(os.Getenv("IMGUP_API_URL")); v != "" {
		e.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("IMGUP_AUTHORIZE_URL")); v != "" {
		e.AuthorizeURL = v
	}
	if v := strings.TrimSpace(os.Getenv("IMGUP_TOKEN_URL")); v != "" {
		e.TokenURL = v
	}
	if v := strings.TrimSpace(os.Getenv("IMGUP_HTTP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			e.HTTPTimeout = d
		}
	}

	return e
}

// HTTPClient returns a client honoring HTTPTimeout.
func (e Endpoints) HTTPClient() *http.Client {
	return &http.Client{Timeout: e.HTTPTimeout}
}

// ImageURL is the image upload endpoint.
func (e Endpoints) ImageURL() string {
	return e.resource("/3/image")
}

// AlbumURL is the album creation endpoint.
func (e Endpoints) AlbumURL() string {
	return e.resource("/3/album")
}

// resource joins path onto APIURL, which may carry a trailing slash.
func (e Endpoints) resource(path string) string {
	return strings.TrimRight(e.APIURL, "/") + path
}
