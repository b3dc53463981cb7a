// Package uploadcmder provides the imgup root command, which uploads images.
package uploadcmder

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/cli/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	authcmder "github.com/papercomputeco/imgup/cmd/imgup/auth"
	"github.com/papercomputeco/imgup/pkg/app"
	"github.com/papercomputeco/imgup/pkg/imgur"
	"github.com/papercomputeco/imgup/pkg/progress"
	"github.com/papercomputeco/imgup/pkg/setup"
)

const uploadLongDesc string = `Upload images to imgur.com.

On first use imgup asks for your Imgur application's client id and secret,
opens the authorization page in your browser and asks you to paste the
access and refresh tokens from the redirect. Credentials are stored in
./.client_secrets (INI, as older releases wrote it) when present,
otherwise in client_secrets.toml in the user config directory. Expired
access tokens are refreshed automatically.

Each file is uploaded in order; a failed upload does not stop the others.
With more than one file, " #n" is appended to the title and description.

Examples:
  imgup cat.png                        Upload one image
  imgup -t Trip -d "Day one" *.jpg     Upload several images with a title
  imgup -a -t Trip *.jpg               Create an album and upload into it
  imgup -c cat.png                     Copy the resulting link to the clipboard
  imgup auth                           Re-run the authorization setup`

const uploadShortDesc string = "Upload images to imgur.com"

var (
	openBrowser     = browser.OpenURL
	writeClipboard  = clipboard.WriteAll
	newReporterFunc = progress.New
)

func NewUploadCmd() *cobra.Command {
	var title string
	var description string
	var albumFlag bool
	var clipboardFlag bool

	cmd := &cobra.Command{
		Use:          "imgup [flags] image...",
		Short:        uploadShortDesc,
		Long:         uploadLongDesc,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, args, batchOptions{
				Title:       title,
				Description: description,
				Album:       albumFlag,
			}, clipboardFlag)
		},
	}

	app.AddPersistentFlags(cmd)
	cmd.Flags().StringVarP(&title, "title", "t", "", "Image title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Image description")
	cmd.Flags().BoolVarP(&albumFlag, "album", "a", false, "Create an album and upload the images into it")
	cmd.Flags().BoolVarP(&clipboardFlag, "clipboard", "c", false, "Copy the resulting link(s) to the clipboard")

	cmd.AddCommand(authcmder.NewAuthCmd())

	return cmd
}

func runUpload(cmd *cobra.Command, paths []string, o batchOptions, copyLinks bool) error {
	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Bootstrap(setup.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()), openBrowser); err != nil {
		return err
	}

	client := imgur.NewClient(&imgur.ClientConfig{
		Endpoints:  a.Endpoints,
		HTTPClient: a.HTTPClient,
		Logger:     a.Logger,
		Reporter:   newReporterFunc(cmd.OutOrStdout()),
	})

	b := &batch{
		client: client,
		tokens: a.Authorizer,
		logger: a.Logger,
		out:    cmd.OutOrStdout(),
	}

	s, err := b.run(cmd.Context(), paths, o)
	if err != nil {
		a.Logger.Error("upload aborted", zap.Error(err))
		return err
	}

	if copyLinks && s.Uploaded > 0 {
		text := strings.Join(s.Links, "\n")
		if s.Album != nil {
			text = s.Album.Link()
		}
		if err := writeClipboard(text); err != nil {
			a.Logger.Warn("could not copy to clipboard", zap.Error(err))
		}
	}

	return nil
}
