// Package server exposes the download service over a JSON HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mediagrab/mediagrab/internal/config"
	"github.com/mediagrab/mediagrab/internal/models"
	"github.com/mediagrab/mediagrab/internal/service"
)

// Version is reported by the liveness endpoint.
const Version = "1.0.0"

// Server wires the download service into HTTP handlers.
type Server struct {
	downloader  service.Downloader
	cookieFiles map[models.Platform]string
	logger      zerolog.Logger
}

// New creates a Server. cookieFiles is used by the health endpoint to report
// which platform credentials are present on disk.
func New(downloader service.Downloader, cookieFiles map[models.Platform]string) *Server {
	return &Server{
		downloader:  downloader,
		cookieFiles: cookieFiles,
		logger:      config.GetLogger(),
	}
}

// Router builds the HTTP routing table with logging, CORS, and response
// compression applied to every route.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger, corsMiddleware, compressionMiddleware)

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	// Both spellings accepted; some clients append the trailing slash.
	r.HandleFunc("/download", s.handleDownload).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/download/", s.handleDownload).Methods(http.MethodPost, http.MethodOptions)

	return r
}

type rootResponse struct {
	Message            string   `json:"message"`
	Version            string   `json:"version"`
	SupportedPlatforms []string `json:"supported_platforms"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message:            "Media download service is running",
		Version:            Version,
		SupportedPlatforms: []string{models.PlatformYouTube.String(), models.PlatformInstagram.String()},
	})
}

type healthResponse struct {
	Status  string          `json:"status"`
	Cookies map[string]bool `json:"cookies"`
}

// handleHealth reports service liveness plus which platform credential files
// are present in the working directory.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	cookies := make(map[string]bool, len(s.cookieFiles))
	for p, path := range s.cookieFiles {
		_, err := os.Stat(path)
		cookies[p.String()] = err == nil
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Cookies: cookies,
	})
}

// handleDownload runs a download end to end. Orchestration failures come
// back as status=error payloads with HTTP 200; only a malformed request body
// is a protocol-level 400.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req models.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
		return
	}

	resp := s.downloader.Download(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
