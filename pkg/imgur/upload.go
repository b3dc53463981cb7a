package imgur

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/papercomputeco/imgup/pkg/progress"
)

// UploadImage uploads one image file. The whole file is read into memory and
// sent base64 encoded inside a multipart form.
func (c *Client) UploadImage(ctx context.Context, tokens Tokens, r UploadRequest) (*Image, error) {
	contents, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	body, contentType, err := buildImageBody(contents, r)
	if err != nil {
		return nil, err
	}

	c.reporter.Start(filepath.Base(r.Path), int64(len(body)))
	defer c.reporter.Finish()

	resp, err := c.doAuthorized(ctx, tokens, func(ctx context.Context, token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.ImageURL(),
			progress.NewReader(bytes.NewReader(body), c.reporter))
		if err != nil {
			return nil, err
		}
		req.ContentLength = int64(len(body))
		req.Header.Set("Content-Type", contentType)
		setBearer(req, token)
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	img, err := decodeResponse[Image](resp)
	if err != nil {
		return nil, err
	}
	if img.Link == "" {
		return nil, ErrMissingLink
	}

	c.logger.Debug("uploaded image",
		zap.String("path", r.Path),
		zap.String("id", img.ID),
		zap.String("album", r.AlbumID),
	)

	return img, nil
}

// buildImageBody encodes the multipart form for an upload.
func buildImageBody(contents []byte, r UploadRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"image", base64.StdEncoding.EncodeToString(contents)},
		{"type", "base64"},
		{"title", r.Title},
		{"description", r.Description},
	}
	if r.AlbumID != "" {
		fields = append(fields, [2]string{"album", r.AlbumID})
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("writing %s field: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
