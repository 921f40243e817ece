package diag

import "net/http"

// statusRecorder captures the status code a handler writes so the
// logging and metrics stages can report it afterwards. Duplicate
// WriteHeader calls are dropped instead of reaching net/http, which
// would log them as superfluous.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

// WriteHeader forwards the first status code and swallows the rest.
func (sr *statusRecorder) WriteHeader(status int) {
	if sr.status != 0 {
		return
	}
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// Write implies 200 when the handler never set a status, matching
// net/http's own behavior.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.WriteHeader(http.StatusOK)
	}
	return sr.ResponseWriter.Write(b)
}

// Status returns the recorded code, 200 when nothing was written yet.
func (sr *statusRecorder) Status() int {
	if sr.status == 0 {
		return http.StatusOK
	}
	return sr.status
}
