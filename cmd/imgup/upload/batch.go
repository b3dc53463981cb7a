package uploadcmder

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/papercomputeco/imgup/pkg/imgur"
)

var (
	doneStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	albumStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7F5283"))
)

// apiClient is the part of imgur.Client a batch needs.
type apiClient interface {
	UploadImage(ctx context.Context, tokens imgur.Tokens, r imgur.UploadRequest) (*imgur.Image, error)
	CreateAlbum(ctx context.Context, tokens imgur.Tokens, title, description string) (*imgur.Album, error)
}

type batchOptions struct {
	Title       string
	Description string
	Album       bool
}

type summary struct {
	Attempted int
	Uploaded  int
	Failed    int
	Links     []string
	Album     *imgur.Album
}

type batch struct {
	client apiClient
	tokens imgur.Tokens
	logger *zap.Logger
	out    io.Writer
}

// run uploads paths in order. With the album option an album is created
// first and a failure there aborts the batch. A failed upload is logged and
// the remaining files are still attempted.
func (b *batch) run(ctx context.Context, paths []string, o batchOptions) (*summary, error) {
	s := &summary{}

	albumID := ""
	if o.Album {
		album, err := b.client.CreateAlbum(ctx, b.tokens, o.Title, o.Description)
		if err != nil {
			return s, fmt.Errorf("creating album: %w", err)
		}
		s.Album = album
		albumID = album.ID
		fmt.Fprintf(b.out, "%s %s\n", albumStyle.Render("Album"), album.Link())
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		suffix := ""
		if len(paths) > 1 {
			suffix = fmt.Sprintf(" #%d", i+1)
		}

		s.Attempted++
		img, err := b.client.UploadImage(ctx, b.tokens, imgur.UploadRequest{
			Path:        path,
			Title:       o.Title + suffix,
			Description: o.Description + suffix,
			AlbumID:     albumID,
		})
		if err != nil {
			s.Failed++
			b.logger.Error("upload failed", zap.String("path", path), zap.Error(err))
			continue
		}

		s.Uploaded++
		s.Links = append(s.Links, img.Link)
		fmt.Fprintf(b.out, "%s %s => %s\n", doneStyle.Render("Done"), path, img.Link)
	}

	if s.Album != nil {
		fmt.Fprintf(b.out, "Uploaded %d of %d images to %s\n", s.Uploaded, s.Attempted, s.Album.Link())
	}

	return s, nil
}
