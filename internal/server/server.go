// Package server exposes the ballistics engine over HTTP.
//
// Routes:
//
//	POST /solve    SolveInput JSON -> SolveOutput JSON
//	POST /plot     SolveInput JSON -> trajectory image (?format=png|svg|pdf|...)
//	GET  /healthz  liveness
//	GET  /metrics  Prometheus metrics
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/cxd309/ballistics-engine/internal/engine"
	"github.com/cxd309/ballistics-engine/internal/flight"
	"github.com/cxd309/ballistics-engine/internal/plotting"
)

// maxBodyBytes caps request bodies; a SolveInput is a few hundred bytes.
const maxBodyBytes = 1 << 20

// Config holds the server tuning knobs.
type Config struct {
	RatePerSecond float64 // solves per second allowed per client
	Burst         int
}

// DefaultConfig allows each client 5 solves per second with bursts of 10.
func DefaultConfig() Config {
	return Config{RatePerSecond: 5, Burst: 10}
}

// Server routes HTTP requests to the engine.
type Server struct {
	router  *mux.Router
	metrics *Metrics
	limiter *clientLimiter
	log     *slog.Logger
}

// New builds a Server whose metrics are registered in reg and served from it.
func New(cfg Config, reg *prometheus.Registry, logger *slog.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		metrics: NewMetrics(reg),
		limiter: newClientLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		log:     logger,
	}

	s.router.HandleFunc("/solve", s.handleSolve).Methods(http.MethodPost)
	s.router.HandleFunc("/plot", s.handlePlot).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).Methods(http.MethodGet)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error       string   `json:"error"`
	MaxDistance *float64 `json:"max_distance,omitempty"`
	MaxAngle    *float64 `json:"max_angle,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// solve decodes the request body and runs it, writing an error response and
// returning ok=false on failure.
func (s *Server) solve(w http.ResponseWriter, r *http.Request) (engine.SolveOutput, bool) {
	if !s.limiter.allow(r) {
		s.metrics.RecordRateLimited()
		s.log.Warn("rate limited", "client", clientAddr(r), "path", r.URL.Path)
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests"})
		return engine.SolveOutput{}, false
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: err.Error()})
		return engine.SolveOutput{}, false
	}
	in, err := engine.DecodeInput(data)
	if err != nil {
		s.metrics.RecordSolve("unknown", "invalid", 0, 0)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return engine.SolveOutput{}, false
	}

	start := time.Now()
	out, err := engine.Run(in)
	elapsed := time.Since(start)
	mode := string(in.Mode)

	if err != nil {
		status, body, outcome := classify(err)
		s.metrics.RecordSolve(mode, outcome, elapsed, 0)
		s.log.Info("solve rejected", "mode", mode, "outcome", outcome, "err", err)
		writeJSON(w, status, body)
		return engine.SolveOutput{}, false
	}

	outcome, attempts := summarize(out)
	s.metrics.RecordSolve(mode, outcome, elapsed, attempts)
	s.log.Info("solve", "mode", mode, "outcome", outcome, "attempts", attempts, "duration", elapsed)
	return out, true
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	out, ok := s.solve(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	opts := plotting.DefaultOptions()
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Format = f
	}
	contentType, err := plotting.ContentType(opts.Format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	out, ok := s.solve(w, r)
	if !ok {
		return
	}
	traj, title := trajectoryOf(out)
	if traj == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("mode %q has no trajectory to plot", out.Mode)})
		return
	}
	opts.Title = title

	w.Header().Set("Content-Type", contentType)
	if err := plotting.Render(w, traj, opts); err != nil {
		s.log.Error("plot render failed", "err", err)
	}
}

// classify maps an engine error to an HTTP status, response body and metric outcome.
func classify(err error) (int, errorBody, string) {
	var infeasible *engine.InfeasibleTargetError
	switch {
	case errors.As(err, &infeasible):
		return http.StatusUnprocessableEntity, errorBody{
			Error:       err.Error(),
			MaxDistance: &infeasible.MaxDistance,
			MaxAngle:    &infeasible.MaxAngle,
		}, "infeasible"
	case errors.Is(err, engine.ErrInvalidParameter):
		return http.StatusBadRequest, errorBody{Error: err.Error()}, "invalid"
	default:
		return http.StatusInternalServerError, errorBody{Error: err.Error()}, "error"
	}
}

func outcomeOf(status engine.Status) string {
	if status == engine.StatusUnbounded {
		return "unbounded"
	}
	return "ok"
}

// summarize returns the metric outcome and simulation count of a successful solve.
func summarize(out engine.SolveOutput) (string, int) {
	switch {
	case out.MaxRange != nil:
		return outcomeOf(out.MaxRange.Status), out.MaxRange.Attempts
	case out.AngleForDistance != nil:
		return outcomeOf(out.AngleForDistance.Status), out.AngleForDistance.Attempts
	case out.Trajectory != nil:
		return outcomeOf(out.Trajectory.Status), 1
	}
	return "ok", 0
}

func trajectoryOf(out engine.SolveOutput) (flight.Trajectory, string) {
	switch {
	case out.AngleForDistance != nil:
		r := out.AngleForDistance
		return r.Trajectory, fmt.Sprintf("%.4f° to %.1f m", r.Angle, r.Distance)
	case out.Trajectory != nil:
		r := out.Trajectory
		return r.Trajectory, fmt.Sprintf("%.1f m in %.3f s", r.Distance, r.FlightTime)
	}
	return nil, ""
}
