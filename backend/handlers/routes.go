// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Catalog
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/switch-models", Handler: h.SwitchModels},

		// Projects
		{Method: http.MethodGet, Path: "/api/v1/projects", Handler: h.ListProjects},
		{Method: http.MethodPost, Path: "/api/v1/projects", Handler: h.CreateProject},
		{Method: http.MethodGet, Path: "/api/v1/projects/{id}", Handler: h.GetProject},
		{Method: http.MethodPatch, Path: "/api/v1/projects/{id}", Handler: h.UpdateProject},
		{Method: http.MethodDelete, Path: "/api/v1/projects/{id}", Handler: h.DeleteProject},

		// Topology
		{Method: http.MethodGet, Path: "/api/v1/projects/{id}/topology", Handler: h.GetProjectTopology},
		{Method: http.MethodGet, Path: "/api/v1/projects/{id}/stats", Handler: h.GetProjectStats},
		{Method: http.MethodGet, Path: "/api/v1/projects/{id}/document", Handler: h.GetProjectDocument},
		{Method: http.MethodGet, Path: "/api/v1/projects/{id}/diagram", Handler: h.GetProjectDiagram},
		{Method: http.MethodPost, Path: "/api/v1/topology", Handler: h.SynthesizeTopology},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}
