package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cxd309/ballistics-engine/internal/engine"
)

const projectileJSON = `"projectile": {"drag": 0.05, "velocity": 50, "mass": 1}`

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	return New(cfg, prometheus.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func post(s *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestSolveEndpoint(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		mode       string
		outcome    string
		validate   func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:       "max range",
			body:       `{"mode": "max_range", ` + projectileJSON + `, "precision": 4}`,
			wantStatus: http.StatusOK,
			mode:       "max_range",
			outcome:    "ok",
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var out engine.SolveOutput
				if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if out.MaxRange == nil || out.MaxRange.Distance <= 0 {
					t.Errorf("max_range = %+v", out.MaxRange)
				}
			},
		},
		{
			name:       "infeasible distance",
			body:       `{"mode": "angle_for_distance", ` + projectileJSON + `, "precision": 3, "target": {"distance": 5000}}`,
			wantStatus: http.StatusUnprocessableEntity,
			mode:       "angle_for_distance",
			outcome:    "infeasible",
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var body errorBody
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if body.MaxDistance == nil || *body.MaxDistance <= 0 || *body.MaxDistance >= 5000 {
					t.Errorf("max_distance = %v", body.MaxDistance)
				}
			},
		},
		{
			name:       "zero drag",
			body:       `{"mode": "max_range", "projectile": {"drag": 0, "velocity": 50, "mass": 1}, "precision": 4}`,
			wantStatus: http.StatusBadRequest,
			mode:       "max_range",
			outcome:    "invalid",
		},
		{
			name:       "unknown mode",
			body:       `{"mode": "orbit", ` + projectileJSON + `}`,
			wantStatus: http.StatusBadRequest,
			mode:       "orbit",
			outcome:    "invalid",
		},
		{
			name:       "malformed JSON",
			body:       `{"mode": `,
			wantStatus: http.StatusBadRequest,
			mode:       "unknown",
			outcome:    "invalid",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := testutil.ToFloat64(s.metrics.solvesTotal.WithLabelValues(tc.mode, tc.outcome))
			rec := post(s, "/solve", tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			after := testutil.ToFloat64(s.metrics.solvesTotal.WithLabelValues(tc.mode, tc.outcome))
			if after != before+1 {
				t.Errorf("solves_total{%s,%s} went from %g to %g", tc.mode, tc.outcome, before, after)
			}
			if tc.validate != nil {
				tc.validate(t, rec)
			}
		})
	}
}

func TestPlotEndpoint(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := post(s, "/plot", `{"mode": "trajectory", `+projectileJSON+`, "angle": 35}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	rec = post(s, "/plot", `{"mode": "max_range", `+projectileJSON+`, "precision": 2}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("plotting a max_range solve: status = %d, want 400", rec.Code)
	}

	rec = post(s, "/plot?format=bmp", `{"mode": "trajectory", `+projectileJSON+`, "angle": 35}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bmp format: status = %d, want 400", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RatePerSecond: 0.001, Burst: 1})
	body := `{"mode": "trajectory", ` + projectileJSON + `, "angle": 10}`

	if rec := post(s, "/solve", body); rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", rec.Code)
	}
	if rec := post(s, "/solve", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rec.Code)
	}
	if got := testutil.ToFloat64(s.metrics.rateLimited); got != 1 {
		t.Errorf("rate_limited_total = %g, want 1", got)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	post(s, "/solve", `{"mode": "trajectory", `+projectileJSON+`, "angle": 20}`)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Errorf("healthz: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status %d", rec.Code)
	}
	for _, name := range []string{"ballistics_solves_total", "ballistics_solve_duration_seconds", "ballistics_solve_attempts"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("metrics output lacks %s", name)
		}
	}
}

func TestSolveRejectsGet(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/solve", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /solve: status = %d, want 405", rec.Code)
	}
}
