// Package statusapi exposes sweep progress over HTTP for long-running runs:
// /status (JSON snapshot), /healthz, and /metrics (Prometheus). The server is
// opt-in and read-only; the driver keeps running if nobody listens.
package statusapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mergescan/internal/sweep"
	"mergescan/pkg/types"
)

// Collector implements sweep.Observer and keeps a snapshot for /status.
type Collector struct {
	mu      sync.RWMutex
	sweep   string
	state   string
	total   int
	current string
	results []sweep.RunResult
}

func NewCollector() *Collector {
	return &Collector{state: "idle"}
}

func (c *Collector) SweepStarted(name string, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep = name
	c.total = total
	c.state = "running"
	c.current = ""
	c.results = nil
}

func (c *Collector) RunStarted(label string) {
	c.mu.Lock()
	c.current = label
	c.mu.Unlock()
	sweepInflight.Set(1)
}

func (c *Collector) RunFinished(res sweep.RunResult) {
	c.mu.Lock()
	c.current = ""
	c.results = append(c.results, res)
	name := c.sweep
	c.mu.Unlock()

	sweepInflight.Set(0)
	iterationsTotal.WithLabelValues(name, string(res.State)).Inc()
	if res.MergeDuration > 0 {
		mergeDuration.WithLabelValues(name).Observe(res.MergeDuration.Seconds())
	}
	if res.UploadDuration > 0 {
		uploadDuration.WithLabelValues(name).Observe(res.UploadDuration.Seconds())
	}
}

func (c *Collector) SweepFinished(rep sweep.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = "done"
}

// Status returns a read-only snapshot for the /status endpoint.
func (c *Collector) Status() types.StatusResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp := types.StatusResponse{
		Sweep:   c.sweep,
		State:   c.state,
		Total:   c.total,
		Current: c.current,
	}
	resp.Runs = make([]types.RunStatus, 0, len(c.results))
	for _, res := range c.results {
		rs := types.RunStatus{
			Label:    res.Label,
			State:    string(res.State),
			MergeMS:  res.MergeDuration.Milliseconds(),
			UploadMS: res.UploadDuration.Milliseconds(),
		}
		if res.Err != nil {
			rs.Error = res.Err.Error()
		}
		if res.Failed() {
			resp.Failed++
		} else if res.State == sweep.StateDone {
			resp.Completed++
		}
		resp.Runs = append(resp.Runs, rs)
	}
	return resp
}

// Options configures the status mux. CORS stays off unless origins are given.
type Options struct {
	CORSOrigins []string
}

// NewMux builds the status router.
func NewMux(c *Collector, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet},
		}))
	}

	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(c.Status()); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Serve runs the status server until ctx is canceled, then shuts down
// gracefully. Listen errors are logged, not fatal: the sweep matters more
// than its dashboard.
func Serve(ctx context.Context, addr string, h http.Handler, log zerolog.Logger) {
	srv := &http.Server{Addr: addr, Handler: h}
	go func() {
		log.Info().Str("addr", addr).Msg("status server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("status server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("status server shutdown error")
		}
	}()
}
