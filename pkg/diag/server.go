package diag

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/NVIDIA/kube-telemetry/pkg/serializer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Server is the diagnostic HTTP listener. It exposes liveness and
// readiness probes, the Prometheus registry, and the last rendered
// report for inspection. It never serves the monitoring output path;
// the report endpoint exists for humans and debuggers.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter

	mu           sync.RWMutex
	ready        bool
	lastReport   string
	lastRendered time.Time
}

// NewServer builds the listener from config, falling back to
// NewConfig defaults when config is nil.
func NewServer(config *Config) *Server {
	if config == nil {
		config = NewConfig()
	}

	s := &Server{config: config, rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst)}
	s.httpServer = &http.Server{
		Addr:              config.Address,
		Handler:           s.routes(),
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
	}
	return s
}

// routes builds the mux. Only the report endpoint goes through the
// middleware chain; probes and scrapes must keep answering even when
// the limiter is saturated.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/report", s.withMiddleware(s.handleReport))
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
	}{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes: []string{
			"GET /healthz",
			"GET /readyz",
			"GET /metrics",
			"GET /report",
		},
	}

	s.mu.RLock()
	resp.Ready = s.ready
	s.mu.RUnlock()

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// Publish stores the latest rendered report and marks the server
// ready. The CLI calls it after every successful collection cycle.
func (s *Server) Publish(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = text
	s.lastRendered = time.Now().UTC()
	s.ready = true
}

func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start serves until ctx is cancelled, then drains connections and
// returns. A listener that fails to come up returns its error right
// away.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("diagnostic listener starting", "address", s.httpServer.Addr)

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		done <- s.Shutdown(context.Background())
	}()

	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

// Shutdown flips readiness off and drains in-flight connections,
// waiting at most the configured grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	s.setReady(false)
	slog.Info("diagnostic listener stopping")

	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
