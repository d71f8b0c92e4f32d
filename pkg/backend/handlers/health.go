package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/kestrelhq/devchat-gateway/pkg/backendtypes"
)

// DevUpstreamPinger probes the Dev upstream's reachability without driving a
// full chat completion. HealthHandler depends on the interface rather than
// *devapi.Client directly so it stays testable with a stub.
type DevUpstreamPinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	pinger    DevUpstreamPinger
	version   string
	startTime time.Time
}

func NewHealthHandler(pinger DevUpstreamPinger, version string) *HealthHandler {
	return &HealthHandler{
		pinger:    pinger,
		version:   version,
		startTime: time.Now(),
	}
}

// Status returns simple liveness status, independent of the Dev upstream.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, r, map[string]string{"status": "ok"})
}

// Health returns detailed health including Dev upstream reachability.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	upstream := backendtypes.DevUpstreamHealth{Status: "ok"}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		upstream.Status = "unreachable"
		upstream.Message = err.Error()
	}

	response := backendtypes.HealthResponse{
		Status:      "healthy",
		Version:     h.version,
		Uptime:      time.Since(h.startTime).String(),
		DevUpstream: upstream,
	}

	SendSuccess(w, r, response)
}

// Version returns version information.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, r, map[string]string{
		"version": h.version,
	})
}
