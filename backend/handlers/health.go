// ABOUTME: Health and catalog endpoints
// ABOUTME: Reports store and cache status and lists available switch models

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/markalston/fabric-designer/backend/models"
)

// Health reports service status. A failing store degrades the status but the
// endpoint still answers 200 so load balancers can tell the process is alive.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:      "ok",
		StoreDriver: h.storeDriver,
		SwitchModel: h.switchModel.Name,
	}

	if h.store == nil {
		resp.Status = "degraded"
	} else if projects, err := h.store.List(r.Context()); err != nil {
		slog.Warn("Health check could not list projects", "error", err)
		resp.Status = "degraded"
	} else {
		resp.Projects = len(projects)
	}

	if h.cache != nil {
		resp.CacheEntries = h.cache.Len()
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// SwitchModels lists the switch catalog.
func (h *Handler) SwitchModels(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.SwitchCatalog)
}
