package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/nvdbdq/pkg/cache"
)

// CacheReporter exposes fetch cache usage
type CacheReporter interface {
	CacheStats() []cache.Stats
}

// HealthHandler reports liveness and cache usage
type HealthHandler struct {
	caches  CacheReporter
	service string
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(caches CacheReporter, service string) *HealthHandler {
	return &HealthHandler{caches: caches, service: service, started: time.Now()}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string        `json:"status"`
	Service string        `json:"service"`
	Uptime  string        `json:"uptime"`
	Caches  []cache.Stats `json:"caches"`
}

// Get returns server health status
// GET /health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Service: h.service,
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
		Caches:  []cache.Stats{},
	}
	if h.caches != nil {
		resp.Caches = h.caches.CacheStats()
	}

	respondJSON(w, http.StatusOK, resp)
}
