// ABOUTME: HTTP handlers for the fabric designer API
// ABOUTME: Shared handler state plus JSON encoding, decoding, and error mapping

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/fabric-designer/backend/cache"
	"github.com/markalston/fabric-designer/backend/config"
	"github.com/markalston/fabric-designer/backend/metrics"
	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/services"
	"github.com/markalston/fabric-designer/backend/store"
)

// maxRequestBodySize limits JSON request bodies to 1MB
const maxRequestBodySize = 1 << 20

type Handler struct {
	store       store.ProjectStore
	cache       *cache.Cache[models.TopologyResponse]
	metrics     *metrics.Metrics
	storeDriver string
	switchModel models.SwitchModel
}

// NewHandler wires the API to a project store. cache and metrics are optional.
func NewHandler(cfg *config.Config, projects store.ProjectStore, topologies *cache.Cache[models.TopologyResponse], m *metrics.Metrics) *Handler {
	h := &Handler{
		store:       projects,
		cache:       topologies,
		metrics:     m,
		storeDriver: store.DriverMemory,
	}
	h.switchModel, _ = models.LookupSwitchModel(models.DefaultSwitchModel)

	if cfg != nil {
		if cfg.StoreDriver != "" {
			h.storeDriver = cfg.StoreDriver
		}
		if m := cfg.DefaultSwitchModel(); m.Name != "" {
			h.switchModel = m
		}
	}

	return h
}

// synthesize runs the engine and records it.
func (h *Handler) synthesize(cfg models.ClusterConfig, model models.SwitchModel) models.TopologyGraph {
	start := time.Now()
	graph := services.Synthesize(cfg, model)
	h.metrics.ObserveSynthesis(time.Since(start), graph)
	if graph.Degraded() {
		slog.Warn("Synthesized topology is degraded",
			"switch_model", model.Name,
			"servers", cfg.ServerCount,
			"unplaced_ports", unplacedPorts(graph),
		)
	}
	return graph
}

// projectSwitchModel resolves a project's switch model, falling back to the
// service default when the stored name is no longer in the catalog.
func (h *Handler) projectSwitchModel(p models.Project) models.SwitchModel {
	if m, ok := models.LookupSwitchModel(p.SwitchModel); ok {
		return m
	}
	return h.switchModel
}

func unplacedPorts(graph models.TopologyGraph) int {
	n := 0
	for _, f := range graph.Fabrics {
		n += f.UnplacedServerPorts
	}
	return n
}

// decodeJSON reads a size-limited JSON body into v, writing a 400 on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return false
		}
		h.writeErrorWithDetails(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// storeError maps a store or validation error to an HTTP response.
func (h *Handler) storeError(w http.ResponseWriter, op string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, "Project not found", http.StatusNotFound)
	case errors.As(err, &verr):
		h.writeErrorWithDetails(w, "Validation failed", verr.Error(), http.StatusBadRequest)
	default:
		slog.Error("Project store failed", "op", op, "error", err)
		h.writeError(w, "Project store unavailable", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (h *Handler) writeErrorWithDetails(w http.ResponseWriter, message, details string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}
