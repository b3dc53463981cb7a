// Package imgurtest provides a fake Imgur API for tests.
package imgurtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/papercomputeco/imgup/pkg/imgur"
)

const (
	// NewAccessToken is handed out by successful refresh grants.
	NewAccessToken = "refreshed-access-token"

	maxMemory = 32 << 20
)

// Upload is one image request as seen by the server.
type Upload struct {
	Authorization string
	Fields        map[string]string
}

// Server is a fake Imgur API. Configure the exported fields before issuing
// requests; read the recorded calls through the accessor methods.
type Server struct {
	*httptest.Server

	// ImageStatus picks the status for the n-th (0-based) image request.
	// Nil means 200 for every request.
	ImageStatus func(n int, fields map[string]string) int

	// AlbumStatus picks the status for the n-th album request.
	AlbumStatus func(n int) int

	// TokenStatus is returned by the token endpoint; zero means 200.
	TokenStatus int

	// RotatedRefreshToken, when set, is returned by refresh grants.
	RotatedRefreshToken string

	// AlbumID is returned by album creation; defaults to "album123".
	AlbumID string

	mu          sync.Mutex
	uploads     []Upload
	albumAuths  []string
	albumBodies []map[string]string
	tokenForms  []url.Values
}

// NewServer starts a fake Imgur API. Callers must Close it.
func NewServer() *Server {
	s := &Server{AlbumID: "album123"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /3/image", s.handleImage)
	mux.HandleFunc("POST /3/album", s.handleAlbum)
	mux.HandleFunc("POST /oauth2/token", s.handleToken)
	s.Server = httptest.NewServer(mux)

	return s
}

// Endpoints points an imgur client at this server.
func (s *Server) Endpoints() imgur.Endpoints {
	return imgur.Endpoints{
		APIURL:       s.URL,
		AuthorizeURL: s.URL + "/oauth2/authorize",
		TokenURL:     s.URL + "/oauth2/token",
	}
}

// Uploads returns the recorded image requests.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// AlbumRequests returns the decoded album creation bodies.
func (s *Server) AlbumRequests() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.albumBodies...)
}

// AlbumAuthorizations returns the Authorization headers of album requests.
func (s *Server) AlbumAuthorizations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.albumAuths...)
}

// TokenRequests returns the recorded refresh grant forms.
func (s *Server) TokenRequests() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.tokenForms...)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	fields := map[string]string{}
	for k, v := range r.MultipartForm.Value {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}

	s.mu.Lock()
	n := len(s.uploads)
	s.uploads = append(s.uploads, Upload{
		Authorization: r.Header.Get("Authorization"),
		Fields:        fields,
	})
	status := http.StatusOK
	if s.ImageStatus != nil {
		status = s.ImageStatus(n, fields)
	}
	s.mu.Unlock()

	if status != http.StatusOK {
		writeStatusError(w, status)
		return
	}

	id := fmt.Sprintf("img%d", n+1)
	writeData(w, http.StatusOK, map[string]any{
		"id":          id,
		"title":       fields["title"],
		"description": fields["description"],
		"type":        "image/png",
		"deletehash":  "dh-" + id,
		"link":        "https://i.imgur.com/" + id + ".png",
	})
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed json body")
		return
	}

	s.mu.Lock()
	n := len(s.albumBodies)
	s.albumBodies = append(s.albumBodies, body)
	s.albumAuths = append(s.albumAuths, r.Header.Get("Authorization"))
	status := http.StatusOK
	if s.AlbumStatus != nil {
		status = s.AlbumStatus(n)
	}
	albumID := s.AlbumID
	s.mu.Unlock()

	if status != http.StatusOK {
		writeStatusError(w, status)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"id":         albumID,
		"deletehash": "dh-" + albumID,
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.tokenForms = append(s.tokenForms, r.PostForm)
	status := s.TokenStatus
	rotated := s.RotatedRefreshToken
	s.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":    map[string]any{"error": "Invalid refresh token", "request": "/oauth2/token", "method": "POST"},
			"success": false,
			"status":  status,
		})
		return
	}

	refresh := r.PostForm.Get("refresh_token")
	if rotated != "" {
		refresh = rotated
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":     NewAccessToken,
		"refresh_token":    refresh,
		"expires_in":       315360000,
		"token_type":       "bearer",
		"account_username": "tester",
	})
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":    data,
		"success": status == http.StatusOK,
		"status":  status,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeData(w, status, map[string]any{"error": msg})
}

func writeStatusError(w http.ResponseWriter, status int) {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		writeError(w, status, "The access token provided is invalid.")
	default:
		writeData(w, status, map[string]any{
			"error": map[string]any{
				"code":    1003,
				"message": "File type invalid (1)",
				"type":    "ImgurException",
			},
		})
	}
}
