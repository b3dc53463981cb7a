package imgur

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// CreateAlbum creates an empty album. Images join it through
// UploadRequest.AlbumID.
func (c *Client) CreateAlbum(ctx context.Context, tokens Tokens, title, description string) (*Album, error) {
	payload, err := json.Marshal(albumRequest{Title: title, Description: description})
	if err != nil {
		return nil, fmt.Errorf("marshal album request: %w", err)
	}

	resp, err := c.doAuthorized(ctx, tokens, func(ctx context.Context, token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.AlbumURL(), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		setBearer(req, token)
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	album, err := decodeResponse[Album](resp)
	if err != nil {
		return nil, err
	}
	if album.ID == "" {
		return nil, errors.New("album response missing id")
	}

	c.logger.Debug("created album", zap.String("id", album.ID))

	return album, nil
}
