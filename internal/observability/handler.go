// Package observability exposes the ambient /healthz and /metrics-shaped
// HTTP surface SPEC_FULL.md §11.4 calls for: connection counts, registry
// size, and per-connection circuit-breaker state. It carries no protocol
// semantics and never participates in the event-fanout path, grounded on
// cc-relay's internal/proxy/server.go listener (same http.Handler
// composition, applied to a status endpoint instead of the LLM proxy
// route).
package observability

import (
	"encoding/json"
	"net/http"

	"github.com/canberks/riotbroker/internal/broker"
	"github.com/canberks/riotbroker/internal/health"
)

// Handler serves /healthz and /metrics.
type Handler struct {
	registry *broker.Registry
	tracker  *health.Tracker
}

// NewHandler builds a Handler reporting on registry and tracker. tracker
// may be nil if circuit breaking is disabled, in which case breaker state
// is omitted from the response.
func NewHandler(registry *broker.Registry, tracker *health.Tracker) *Handler {
	return &Handler{registry: registry, tracker: tracker}
}

// Register mounts the handler's routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.serveHealthz)
	mux.HandleFunc("/metrics", h.serveMetrics)
}

func (h *Handler) serveHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
}

func (h *Handler) serveMetrics(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"connections_active": h.registry.Len(),
	}
	if h.tracker != nil {
		states := make(map[string]string, len(h.tracker.AllStates()))
		for name, st := range h.tracker.AllStates() {
			states[name] = st.String()
		}
		body["circuit_breakers"] = states
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
