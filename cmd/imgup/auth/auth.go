// Package authcmder provides the auth command for managing Imgur credentials.
package authcmder

import (
	"errors"
	"fmt"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/imgup/pkg/app"
	"github.com/papercomputeco/imgup/pkg/setup"
)

const authLongDesc string = `Authorize imgup with your Imgur account.

Runs the authorization setup: asks for the application's client id and
secret if none are stored, opens the Imgur authorization page in your
browser, and stores the access and refresh tokens you paste back.

Examples:
  imgup auth             Authorize (or re-authorize) imgup
  imgup auth --status    Show where credentials are stored and whether they are set
  imgup auth --refresh   Exchange the refresh token for a new access token
  printf '%s\n%s\n' "$ACCESS" "$REFRESH" | imgup auth   Read tokens from stdin`

const authShortDesc string = "Authorize imgup with your Imgur account"

var openBrowser = browser.OpenURL

func NewAuthCmd() *cobra.Command {
	var statusFlag bool
	var refreshFlag bool

	cmd := &cobra.Command{
		Use:          "auth",
		Short:        authShortDesc,
		Long:         authLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if statusFlag && refreshFlag {
				return errors.New("flags --status and --refresh are mutually exclusive")
			}

			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			switch {
			case statusFlag:
				return runStatus(cmd, a)
			case refreshFlag:
				return runRefresh(cmd, a)
			default:
				return a.Setup(setup.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()), openBrowser)
			}
		},
	}

	cmd.Flags().BoolVar(&statusFlag, "status", false, "Show credential status")
	cmd.Flags().BoolVar(&refreshFlag, "refresh", false, "Refresh the access token")

	return cmd
}

func runStatus(cmd *cobra.Command, a *app.App) error {
	out := cmd.OutOrStdout()
	authz := a.Authorizer

	fmt.Fprintf(out, "Credentials file: %s\n", a.Credentials.GetTarget())
	fmt.Fprintf(out, "Client:           %s\n", yesNo(authz.HasClient()))
	fmt.Fprintf(out, "Authorized:       %s\n", yesNo(authz.IsAuthorized()))

	if !authz.IsAuthorized() {
		fmt.Fprintln(out, "\nUse 'imgup auth' to authorize.")
	}

	return nil
}

func runRefresh(cmd *cobra.Command, a *app.App) error {
	if _, err := a.Authorizer.NewAccessToken(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Access token refreshed.")

	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
