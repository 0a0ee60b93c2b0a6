// ABOUTME: HTTP handlers for project CRUD
// ABOUTME: Create, list, read, merge-update, and delete stored network designs

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/services"
)

// ListProjects returns every project, oldest first.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.List(r.Context())
	if err != nil {
		h.storeError(w, "list", err)
		return
	}
	h.writeJSON(w, http.StatusOK, projects)
}

// CreateProject creates a project with default servers and fabrics.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var input models.CreateProjectInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	project, err := h.store.Create(r.Context(), input.Name)
	if err != nil {
		h.storeError(w, "create", err)
		return
	}

	slog.Info("Project created", "project_id", project.ID)
	w.Header().Set("Location", "/api/v1/projects/"+project.ID)
	h.writeJSON(w, http.StatusCreated, project)
}

// GetProject returns one project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, project)
}

// UpdateProject merges a partial update into a project. Fabrics are matched by
// name; unknown names are added and remove_networks drops existing ones.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := services.ValidateProjectID(id); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update models.ProjectUpdate
	if !h.decodeJSON(w, r, &update) {
		return
	}
	if update.Empty() {
		h.writeError(w, "Update contains no changes", http.StatusBadRequest)
		return
	}

	project, err := h.store.Update(r.Context(), id, update)
	if err != nil {
		h.storeError(w, "update", err)
		return
	}

	h.invalidate(project.ID)
	slog.Info("Project updated", "project_id", project.ID, "version", project.Version)
	h.writeJSON(w, http.StatusOK, project)
}

// DeleteProject removes a project and its cached topologies.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := services.ValidateProjectID(id); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.storeError(w, "delete", err)
		return
	}
	if !deleted {
		h.writeError(w, "Project not found", http.StatusNotFound)
		return
	}

	h.invalidate(id)
	slog.Info("Project deleted", "project_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// loadProject reads the project named by the {id} path value, writing an
// error response when it is malformed or missing.
func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) (models.Project, bool) {
	id := r.PathValue("id")
	if err := services.ValidateProjectID(id); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return models.Project{}, false
	}

	project, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, "get", err)
		return models.Project{}, false
	}
	return project, true
}

func (h *Handler) invalidate(projectID string) {
	if h.cache != nil {
		h.cache.ClearPrefix(projectID + "@")
	}
}
