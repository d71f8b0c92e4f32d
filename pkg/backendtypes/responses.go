package backendtypes

import "time"

// APIResponse is the standard response envelope for non-streaming JSON
// endpoints (health, status, version, and the non-streaming chat fallback).
// GET /api/ping answers with plain text and does not use it.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Uptime      string            `json:"uptime"`
	DevUpstream DevUpstreamHealth `json:"dev_upstream"`
}

// DevUpstreamHealth reports the last-known reachability of the Dev
// upstream, generalizing the teacher's per-provider ProviderHealth map down
// to the single fixed upstream this gateway talks to.
type DevUpstreamHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
