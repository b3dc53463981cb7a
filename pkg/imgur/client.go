package imgur

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/papercomputeco/imgup/pkg/progress"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	Endpoints  Endpoints
	HTTPClient *http.Client
	Logger     *zap.Logger
	Reporter   progress.Reporter
}

// Client issues image uploads and album creation.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	logger     *zap.Logger
	reporter   progress.Reporter
}

// NewClient creates a new API client.
func NewClient(c *ClientConfig) *Client {
	if c == nil {
		c = &ClientConfig{}
	}

	cl := &Client{
		endpoints:  c.Endpoints,
		httpClient: c.HTTPClient,
		logger:     c.Logger,
		reporter:   c.Reporter,
	}
	if cl.endpoints.APIURL == "" {
		cl.endpoints = DefaultEndpoints()
	}
	if cl.httpClient == nil {
		cl.httpClient = cl.endpoints.HTTPClient()
	}
	if cl.logger == nil {
		cl.logger = zap.NewNop()
	}
	if cl.reporter == nil {
		cl.reporter = progress.NewNopReporter()
	}

	return cl
}

// requestFunc builds a fresh request authorized with token.
type requestFunc func(ctx context.Context, token string) (*http.Request, error)

// doAuthorized sends the request built by build. A 401 or 403 response
// triggers exactly one token refresh and one retry; a failed refresh returns
// its error without retrying.
func (c *Client) doAuthorized(ctx context.Context, tokens Tokens, build requestFunc) (*http.Response, error) {
	resp, err := c.send(ctx, build, tokens.AccessToken())
	if err != nil {
		return nil, err
	}
	if !IsAuthFailure(resp.StatusCode) {
		return resp, nil
	}

	discard(resp)
	c.logger.Debug("access token rejected, refreshing", zap.Int("status", resp.StatusCode))

	token, err := tokens.NewAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	return c.send(ctx, build, token)
}

func (c *Client) send(ctx context.Context, build requestFunc, token string) (*http.Response, error) {
	req, err := build(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending %s %s: %w", req.Method, req.URL.Path, err)
	}

	return resp, nil
}

// decodeResponse reads the body and returns the unwrapped data payload, or
// an *APIError for non-success statuses.
func decodeResponse[T any](resp *http.Response) (*T, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &env.Data, nil
}

func setBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
