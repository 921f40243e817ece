package diag

import (
	"net/http"
	"time"

	"github.com/NVIDIA/kube-telemetry/pkg/serializer"
	"github.com/google/uuid"
)

// Codes carried in the ErrorResponse body. They are the diagnostic
// listener's wire contract, separate from the collectors' structured
// error codes.
const (
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
)

// ErrorResponse is the JSON error body the diagnostic endpoints return
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError answers with the diagnostic listener's JSON error body.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code, message string, retryable bool, details map[string]any) {

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: requestIDFrom(r),
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// requestIDFrom returns the middleware-assigned request id, or a fresh
// one for responses written before the middleware ran.
func requestIDFrom(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}
