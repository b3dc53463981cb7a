// Package setup runs the one-time interactive credential bootstrap.
package setup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cli/browser"
	"go.uber.org/zap"
)

const registerURL = "https://api.imgur.com/oauth2/addclient"

// Prompter asks the user for a single value.
type Prompter interface {
	Prompt(label string, secret bool) (string, error)
}

// Authorizer is the part of imgur.Authorizer the bootstrap drives.
type Authorizer interface {
	HasClient() bool
	SetClient(clientID, clientSecret string) error
	AuthorizeURL() string
	AuthorizeClient(open func(string) error)
	UpdateTokens(accessToken, refreshToken string) error
}

// Config configures a bootstrap run.
type Config struct {
	Prompter Prompter

	// Open launches a browser. Defaults to the system browser.
	Open func(url string) error

	Out    io.Writer
	Logger *zap.Logger
}

// Run collects application credentials when missing, sends the user to the
// authorization page and stores the tokens they paste back.
func Run(authz Authorizer, c *Config) error {
	if c == nil || c.Prompter == nil {
		return errors.New("prompter is required")
	}
	out := c.Out
	if out == nil {
		out = io.Discard
	}
	open := c.Open
	if open == nil {
		open = browser.OpenURL
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !authz.HasClient() {
		fmt.Fprintf(out, "No Imgur application credentials found. Register one at:\n%s\n\n", registerURL)

		clientID, err := required(c.Prompter, "Client ID", false)
		if err != nil {
			return err
		}
		clientSecret, err := required(c.Prompter, "Client Secret", true)
		if err != nil {
			return err
		}
		if err := authz.SetClient(clientID, clientSecret); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Open this URL in your browser to authorize imgup:")
	fmt.Fprintln(out, authz.AuthorizeURL())
	fmt.Fprintln(out)
	authz.AuthorizeClient(open)

	accessToken, err := required(c.Prompter, "Access Token", true)
	if err != nil {
		return err
	}
	refreshToken, err := required(c.Prompter, "Refresh Token", true)
	if err != nil {
		return err
	}

	if err := authz.UpdateTokens(accessToken, refreshToken); err != nil {
		return err
	}

	logger.Debug("stored tokens from interactive setup")

	return nil
}

func required(p Prompter, label string, secret bool) (string, error) {
	v, err := p.Prompt(label, secret)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%s cannot be empty", label)
	}
	return v, nil
}
