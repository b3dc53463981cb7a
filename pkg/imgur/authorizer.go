package imgur

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/papercomputeco/imgup/pkg/credentials"
)

const responseTypeToken = "token"

// Store loads and persists the credential record.
type Store interface {
	Load() (*credentials.Credentials, error)
	Save(creds *credentials.Credentials) error
}

// AuthorizerConfig configures an Authorizer.
type AuthorizerConfig struct {
	Store      Store
	Endpoints  Endpoints
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Authorizer owns the credential record and keeps it in sync with the Store.
type Authorizer struct {
	store      Store
	creds      *credentials.Credentials
	endpoints  Endpoints
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure interface compatibility.
var _ Tokens = (*Authorizer)(nil)

// NewAuthorizer loads the credential record from the configured Store.
func NewAuthorizer(c *AuthorizerConfig) (*Authorizer, error) {
	if c == nil || c.Store == nil {
		return nil, errors.New("credential store is required")
	}

	creds, err := c.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	a := &Authorizer{
		store:      c.Store,
		creds:      creds,
		endpoints:  c.Endpoints,
		httpClient: c.HTTPClient,
		logger:     c.Logger,
	}
	if a.endpoints.TokenURL == "" {
		a.endpoints = DefaultEndpoints()
	}
	if a.httpClient == nil {
		a.httpClient = a.endpoints.HTTPClient()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}

	return a, nil
}

// IsAuthorized reports whether an access token is stored.
func (a *Authorizer) IsAuthorized() bool {
	return a.creds.AccessToken != ""
}

// AccessToken returns the stored access token.
func (a *Authorizer) AccessToken() string {
	return a.creds.AccessToken
}

// ClientID returns the stored application client id.
func (a *Authorizer) ClientID() string {
	return a.creds.ClientID
}

// HasClient reports whether client id and secret are stored.
func (a *Authorizer) HasClient() bool {
	return a.creds.HasClient()
}

// AuthorizeURL builds the browser authorization URL for the stored client id.
func (a *Authorizer) AuthorizeURL() string {
	u, err := url.Parse(a.endpoints.AuthorizeURL)
	if err != nil {
		u = &url.URL{Path: a.endpoints.AuthorizeURL}
	}

	q := u.Query()
	q.Set("client_id", a.creds.ClientID)
	q.Set("response_type", responseTypeToken)
	u.RawQuery = q.Encode()

	return u.String()
}

// AuthorizeClient opens the authorization URL with open. Launch failures are
// logged and otherwise ignored.
func (a *Authorizer) AuthorizeClient(open func(string) error) {
	authURL := a.AuthorizeURL()
	if open == nil {
		return
	}
	if err := open(authURL); err != nil {
		a.logger.Warn("could not open browser", zap.String("url", authURL), zap.Error(err))
	}
}

// SetClient stores the application credentials and saves them.
func (a *Authorizer) SetClient(clientID, clientSecret string) error {
	a.creds.ClientID = clientID
	a.creds.ClientSecret = clientSecret
	return a.save()
}

// UpdateTokens stores a new access token and saves it. The refresh token is
// replaced only when non-empty.
func (a *Authorizer) UpdateTokens(accessToken, refreshToken string) error {
	a.creds.AccessToken = accessToken
	if refreshToken != "" {
		a.creds.RefreshToken = refreshToken
	}
	return a.save()
}

// NewAccessToken performs the refresh-token grant. On success the new access
// token is persisted (and the refresh token, if the provider rotated it).
// Every failure wraps ErrRefreshFailed.
func (a *Authorizer) NewAccessToken(ctx context.Context) (string, error) {
	if a.creds.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token stored", ErrRefreshFailed)
	}

	conf := &oauth2.Config{
		ClientID:     a.creds.ClientID,
		ClientSecret: a.creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   a.endpoints.AuthorizeURL,
			TokenURL:  a.endpoints.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: a.creds.RefreshToken}).Token()
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			fields = append(fields, zap.ByteString("body", rErr.Body))
			if rErr.Response != nil {
				fields = append(fields, zap.Int("status", rErr.Response.StatusCode))
			}
		}
		a.logger.Error("error getting new access token", fields...)
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	rotated := ""
	if token.RefreshToken != "" && token.RefreshToken != a.creds.RefreshToken {
		rotated = token.RefreshToken
	}
	if err := a.UpdateTokens(token.AccessToken, rotated); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	a.logger.Debug("refreshed access token", zap.Bool("refresh_token_rotated", rotated != ""))

	return token.AccessToken, nil
}

func (a *Authorizer) save() error {
	if err := a.store.Save(a.creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}
