package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"crewdesk/internal/usecase/notify"
)

// HealthServer provides HTTP endpoints for health checks:
//   - /health: liveness probe (always 200 OK)
//   - /health/ready: readiness probe (200 if ready, 503 if not)
//   - /health/channels: per-channel enablement and circuit breaker state
//
// The server supports graceful shutdown via context cancellation.
type HealthServer struct {
	addr     string
	logger   *slog.Logger
	isReady  *atomic.Bool
	channels func() []notify.ChannelHealthStatus
	server   *http.Server
}

// healthResponse is the JSON response format for the probe endpoints.
type healthResponse struct {
	Status string `json:"status"`
}

// channelHealthResponse is one entry of the /health/channels response.
type channelHealthResponse struct {
	Channel            string `json:"channel"`
	Enabled            bool   `json:"enabled"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
}

// NewHealthServer creates a health check server. channelHealth may be nil,
// in which case /health/channels reports an empty list.
func NewHealthServer(addr string, logger *slog.Logger, channelHealth func() []notify.ChannelHealthStatus) *HealthServer {
	isReady := &atomic.Bool{}
	isReady.Store(false)

	return &HealthServer{
		addr:     addr,
		logger:   logger,
		isReady:  isReady,
		channels: channelHealth,
	}
}

// Start runs the health check HTTP server until the context is cancelled or
// an error occurs. Graceful shutdown gets a 5-second budget.
func (h *HealthServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)
	mux.HandleFunc("/health/channels", h.handleChannels)

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		return http.ErrServerClosed

	case err := <-errChan:
		if err != http.ErrServerClosed {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

// SetReady sets the readiness state reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
		h.logger.Error("failed to encode liveness response", slog.Any("error", err))
	}
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.isReady.Load() {
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
			h.logger.Error("failed to encode readiness response", slog.Any("error", err))
		}
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "not ready"}); err != nil {
		h.logger.Error("failed to encode not ready response", slog.Any("error", err))
	}
}

// handleChannels reports per-channel health so operators can see which
// providers are disabled or circuit-broken without scraping metrics.
func (h *HealthServer) handleChannels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	statuses := []notify.ChannelHealthStatus{}
	if h.channels != nil {
		statuses = h.channels()
	}

	out := make([]channelHealthResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, channelHealthResponse{
			Channel:            string(s.Name),
			Enabled:            s.Enabled,
			CircuitBreakerOpen: s.CircuitBreakerOpen,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.logger.Error("failed to encode channel health response", slog.Any("error", err))
	}
}
