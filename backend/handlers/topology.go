// ABOUTME: HTTP handlers for topology synthesis and its renderings
// ABOUTME: Serves the graph, stats, YAML document, and diagram for a project or ad-hoc config

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/render"
	"github.com/markalston/fabric-designer/backend/services"
)

// projectTopology synthesizes (or fetches from cache) the topology of the
// project named in the path. Entries are keyed by id and version, so an
// update never serves a stale graph.
func (h *Handler) projectTopology(w http.ResponseWriter, r *http.Request) (models.Project, models.TopologyResponse, bool) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return models.Project{}, models.TopologyResponse{}, false
	}

	compute := func() (models.TopologyResponse, error) {
		model := h.projectSwitchModel(project)
		return models.TopologyResponse{
			ProjectID:   project.ID,
			Version:     project.Version,
			SwitchModel: model,
			Topology:    h.synthesize(project.Config, model),
		}, nil
	}

	if h.cache == nil {
		resp, _ := compute()
		return project, resp, true
	}

	key := fmt.Sprintf("%s@%d", project.ID, project.Version)
	resp, hit, err := h.cache.GetOrCompute(key, compute)
	if err != nil {
		slog.Error("Topology synthesis failed", "project_id", project.ID, "error", err)
		h.writeError(w, "Topology synthesis failed", http.StatusInternalServerError)
		return models.Project{}, models.TopologyResponse{}, false
	}
	if hit {
		slog.Debug("Topology cache hit", "key", key)
	}
	resp.Cached = hit
	return project, resp, true
}

// GetProjectTopology returns the synthesized graph of a project.
func (h *Handler) GetProjectTopology(w http.ResponseWriter, r *http.Request) {
	_, resp, ok := h.projectTopology(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetProjectStats returns summary counts and per-fabric reports.
func (h *Handler) GetProjectStats(w http.ResponseWriter, r *http.Request) {
	_, resp, ok := h.projectTopology(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, render.Stats(resp.Topology))
}

// GetProjectDocument returns the design as a YAML document.
func (h *Handler) GetProjectDocument(w http.ResponseWriter, r *http.Request) {
	project, resp, ok := h.projectTopology(w, r)
	if !ok {
		return
	}

	doc, err := render.Document(&project, project.Config, resp.SwitchModel, resp.Topology)
	if err != nil {
		slog.Error("Failed to render document", "project_id", project.ID, "error", err)
		h.writeError(w, "Failed to render document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", project.ID+".yaml"))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// GetProjectDiagram returns node and edge positions, or Graphviz DOT with ?format=dot.
func (h *Handler) GetProjectDiagram(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "dot" {
		h.writeError(w, "format must be json or dot", http.StatusBadRequest)
		return
	}

	_, resp, ok := h.projectTopology(w, r)
	if !ok {
		return
	}

	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(render.DOT(resp.Topology)))
		return
	}
	h.writeJSON(w, http.StatusOK, render.Layout(resp.Topology))
}

// SynthesizeTopology builds a topology for a config that is not stored.
func (h *Handler) SynthesizeTopology(w http.ResponseWriter, r *http.Request) {
	var input models.SynthesizeInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	model := h.switchModel
	if input.SwitchModel != "" {
		m, ok := models.LookupSwitchModel(input.SwitchModel)
		if !ok {
			h.writeError(w, fmt.Sprintf("Unknown switch model: %q", input.SwitchModel), http.StatusBadRequest)
			return
		}
		model = m
	}

	cfg := services.NormalizeClusterConfig(input.Config)
	if err := services.ValidateClusterConfig(cfg); err != nil {
		h.writeErrorWithDetails(w, "Validation failed", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, models.TopologyResponse{
		SwitchModel: model,
		Topology:    h.synthesize(cfg, model),
	})
}
