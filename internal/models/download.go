package models

// Status values used in DownloadResponse
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DownloadRequest represents an incoming download request.
// Format is kept as the raw string from the caller so the handler can
// distinguish "absent" (defaults to mp4) from "invalid".
type DownloadRequest struct {
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
}

// DownloadResponse is the terminal result of a download request.
// Exactly one is returned per request; there is no streaming form.
type DownloadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Data     string `json:"data"`
	Message  string `json:"message"`
}

// ErrorResponse builds an error DownloadResponse with the given message
func ErrorResponse(message string) *DownloadResponse {
	return &DownloadResponse{
		Status:  StatusError,
		Message: message,
	}
}
