package imgur

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrRefreshFailed indicates the refresh-token exchange did not yield a new
// access token.
var ErrRefreshFailed = errors.New("refreshing access token failed")

// ErrMissingLink indicates a successful upload response without a link.
var ErrMissingLink = errors.New("upload response missing link")

// APIError is returned when Imgur answers with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("imgur api error (%d): %s", e.StatusCode, e.Message)
}

// IsAuthFailure reports whether status signals a rejected access token.
func IsAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// newAPIError extracts the provider message from an error body. Imgur sends
// data.error either as a string or as an object with a message field.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var env envelope[struct {
		Error json.RawMessage `json:"error"`
	}]
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data.Error) > 0 {
		var msg string
		if err := json.Unmarshal(env.Data.Error, &msg); err == nil {
			apiErr.Message = msg
		} else {
			var obj struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(env.Data.Error, &obj); err == nil {
				apiErr.Message = obj.Message
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}
