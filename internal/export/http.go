package export

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Server exposes the latest rendered metrics over HTTP. The collector
// publishes a new snapshot after every cycle; scrapes between cycles see
// the previous one.
type Server struct {
	addr     string
	renderer *PrometheusRenderer
	srv      *http.Server

	mu         sync.RWMutex
	exposition string
	lastUpdate time.Time
}

// NewServer creates an HTTP exporter listening on addr
func NewServer(addr string) *Server {
	s := &Server{
		addr:     addr,
		renderer: NewPrometheusRenderer(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", s.handleHealthz)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Publish renders the snapshot and makes it the served exposition
func (s *Server) Publish(snap *Snapshot) {
	text := s.renderer.Render(snap)

	s.mu.Lock()
	s.exposition = text
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}

// Start begins serving. Blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	log.Info().
		Str("addr", s.addr).
		Msg("Metrics endpoint listening")

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	text := s.exposition
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.lastUpdate
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if last.IsZero() {
		// Healthy but no cycle has completed yet.
		fmt.Fprintf(w, `{"status":"starting"}`)
		return
	}
	fmt.Fprintf(w, `{"status":"ok","last_collection":"%s"}`, last.UTC().Format(time.RFC3339))
}
