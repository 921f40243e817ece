package diag

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// withMiddleware dresses a handler with the report endpoint's chain:
// instrumentation outermost, then request ids, panic recovery, the
// rate limiter, and access logging just inside it.
func (s *Server) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.logRequests(handler)
	wrapped = s.limitRate(wrapped)
	wrapped = s.recoverPanics(wrapped)
	wrapped = s.assignRequestID(wrapped)
	return s.measureRequests(wrapped)
}

// assignRequestID propagates the caller's X-Request-Id or mints a
// fresh one. Anything that does not parse as a UUID is replaced
// rather than echoed back.
func (s *Server) assignRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	}
}

// limitRate rejects requests over the configured rate with 429 and a
// Retry-After hint. Accepted requests carry the remaining-budget
// headers.
func (s *Server) limitRate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			rateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, ErrCodeRateLimitExceeded,
				"Rate limit exceeded", true,
				map[string]any{"limit": s.config.RateLimit, "burst": s.config.RateLimitBurst})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(s.config.RateLimit)))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(s.rateLimiter.Tokens())))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

		next.ServeHTTP(w, r)
	}
}

// recoverPanics turns a handler panic into a 500 so one bad request
// cannot take the listener down.
func (s *Server) recoverPanics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				panicsRecovered.Inc()
				slog.Error("handler panicked", "error", fmt.Sprint(v),
					"requestID", r.Context().Value(requestIDKey), "method", r.Method, "path", r.URL.Path)
				WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", true, nil)
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// logRequests writes the access log at debug level, one line when the
// request arrives and one with the status and elapsed time. Callers
// correlate the two through the request id.
func (s *Server) logRequests(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Context().Value(requestIDKey)
		slog.Debug("request received", "requestID", id, "method", r.Method, "path", r.URL.Path)

		rec := recordStatus(w)
		start := time.Now()
		next.ServeHTTP(rec, r)

		slog.Debug("request served",
			"requestID", id,
			"status", rec.Status(),
			"duration", time.Since(start).String())
	}
}
