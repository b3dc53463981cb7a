// Package app wires the imgup components together for the CLI commands.
package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/imgup/pkg/credentials"
	"github.com/papercomputeco/imgup/pkg/imgur"
	"github.com/papercomputeco/imgup/pkg/logger"
	"github.com/papercomputeco/imgup/pkg/setup"
)

// Options configures New.
type Options struct {
	ConfigPath string
	Debug      bool
	NoColor    bool
	Out        io.Writer
}

// App holds the components shared by the imgup commands.
type App struct {
	Logger      *zap.Logger
	Endpoints   imgur.Endpoints
	HTTPClient  *http.Client
	Credentials *credentials.Manager
	Authorizer  *imgur.Authorizer
	Out         io.Writer
}

// New resolves the credentials file, loads it and builds the Authorizer.
func New(o Options) (*App, error) {
	out := o.Out
	if out == nil {
		out = os.Stdout
	}

	if o.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	log := logger.New(o.Debug, out)
	endpoints := imgur.LoadEndpoints()
	httpClient := endpoints.HTTPClient()

	mgr, err := credentials.NewManager(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	log.Debug("using credentials file", zap.String("path", mgr.GetTarget()))

	authz, err := imgur.NewAuthorizer(&imgur.AuthorizerConfig{
		Store:      mgr,
		Endpoints:  endpoints,
		HTTPClient: httpClient,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Logger:      log,
		Endpoints:   endpoints,
		HTTPClient:  httpClient,
		Credentials: mgr,
		Authorizer:  authz,
		Out:         out,
	}, nil
}

// FromCommand builds an App from the persistent --config, --debug and
// --no-color flags of cmd.
func FromCommand(cmd *cobra.Command) (*App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	noColor, _ := cmd.Flags().GetBool("no-color")

	return New(Options{
		ConfigPath: configPath,
		Debug:      debug,
		NoColor:    noColor,
		Out:        cmd.OutOrStdout(),
	})
}

// AddPersistentFlags registers the flags FromCommand reads.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Override path to the credentials file")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// Bootstrap runs the interactive setup unless an access token is stored.
func (a *App) Bootstrap(prompter setup.Prompter, open func(string) error) error {
	if a.Authorizer.IsAuthorized() {
		return nil
	}
	return a.Setup(prompter, open)
}

// Setup runs the interactive setup unconditionally.
func (a *App) Setup(prompter setup.Prompter, open func(string) error) error {
	if prompter == nil {
		return errors.New("prompter is required")
	}

	err := setup.Run(a.Authorizer, &setup.Config{
		Prompter: prompter,
		Open:     open,
		Out:      a.Out,
		Logger:   a.Logger,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "Stored credentials in %s\n", a.Credentials.GetTarget())

	return nil
}

// Close flushes the logger.
func (a *App) Close() {
	_ = a.Logger.Sync()
}
