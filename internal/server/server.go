// Package server exposes a small HTTP status surface for a running
// simulation: an HTML overview page, JSON snapshot and warning endpoints,
// and Prometheus metrics.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"routehazard-sim/internal/sim"
)

type Server struct {
	Sim     *sim.Simulator
	tpl     *template.Template
	metrics *Collector
}

//go:embed templates/index.html
var content embed.FS

// NewServer builds a status server for the simulator. Metrics are registered
// against reg; pass nil to use the global Prometheus registry.
func NewServer(simulator *sim.Simulator, reg prometheus.Registerer) (*Server, error) {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	metrics, err := NewCollector(reg, simulator)
	if err != nil {
		return nil, err
	}
	return &Server{Sim: simulator, tpl: tpl, metrics: metrics}, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/warnings", s.handleWarnings)
	mux.Handle("/metrics", s.metrics.Handler())
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap := s.Sim.Snapshot()
	data := struct {
		Snapshot   sim.Snapshot
		State      sim.SimulationState
		TickCount  int
		RouteM     float64
		ProgressPc float64
	}{
		Snapshot:  snap,
		State:     snap.State,
		TickCount: s.Sim.TickCount(),
	}
	if n := len(snap.Cumulative); n > 0 {
		data.RouteM = snap.Cumulative[n-1]
	}
	if data.RouteM > 0 {
		data.ProgressPc = 100 * snap.State.DistanceTraveled / data.RouteM
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.Snapshot())
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.Warnings())
}
