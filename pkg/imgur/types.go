package imgur

import "context"

// Tokens supplies bearer tokens to the API client. Authorizer implements it.
type Tokens interface {
	// AccessToken returns the currently stored access token.
	AccessToken() string

	// NewAccessToken exchanges the refresh token for a new access token.
	NewAccessToken(ctx context.Context) (string, error)
}

// UploadRequest describes one image upload.
type UploadRequest struct {
	Path        string
	Title       string
	Description string

	// AlbumID is attached to the upload when non-empty.
	AlbumID string
}

// Image is the data payload returned for an uploaded image.
type Image struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Datetime    int64  `json:"datetime"`
	Type        string `json:"type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
	DeleteHash  string `json:"deletehash"`
	Link        string `json:"link"`
}

// Album is the data payload returned when an album is created.
type Album struct {
	ID         string `json:"id"`
	DeleteHash string `json:"deletehash"`
}

// Link returns the public album URL.
func (a *Album) Link() string {
	return albumLinkBase + a.ID
}

type albumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type envelope[T any] struct {
	Data    T    `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}
