// ABOUTME: HTTP client for the Fabric Designer API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/render"
)

const apiPrefix = "/api/v1"

// Client is the API client for the Fabric Designer backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the backend URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("backend error: %s (%s)", e.Message, e.Details)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Health calls the /api/v1/health endpoint
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// SwitchModels lists the switch catalog
func (c *Client) SwitchModels(ctx context.Context) ([]models.SwitchModel, error) {
	var catalog []models.SwitchModel
	if err := c.doJSON(ctx, http.MethodGet, "/switch-models", nil, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ListProjects returns every stored project
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project with the backend's default configuration
func (c *Client) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	var project models.Project
	input := models.CreateProjectInput{Name: name}
	if err := c.doJSON(ctx, http.MethodPost, "/projects", input, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject fetches one project
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := c.doJSON(ctx, http.MethodGet, projectPath(id, ""), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject merges a partial update into a project
func (c *Client) UpdateProject(ctx context.Context, id string, update models.ProjectUpdate) (*models.Project, error) {
	var project models.Project
	if err := c.doJSON(ctx, http.MethodPatch, projectPath(id, ""), update, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, projectPath(id, ""), nil, nil)
}

// Topology fetches the synthesized topology of a project
func (c *Client) Topology(ctx context.Context, id string) (*models.TopologyResponse, error) {
	var resp models.TopologyResponse
	if err := c.doJSON(ctx, http.MethodGet, projectPath(id, "/topology"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats fetches summary counts for a project's topology
func (c *Client) Stats(ctx context.Context, id string) (*models.DesignStats, error) {
	var stats models.DesignStats
	if err := c.doJSON(ctx, http.MethodGet, projectPath(id, "/stats"), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Synthesize builds a topology for a config without storing it
func (c *Client) Synthesize(ctx context.Context, input models.SynthesizeInput) (*models.TopologyResponse, error) {
	var resp models.TopologyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/topology", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Document fetches the YAML design document of a project
func (c *Client) Document(ctx context.Context, id string) ([]byte, error) {
	return c.doRaw(ctx, projectPath(id, "/document"))
}

// Diagram fetches the diagram of a project. format is "json" or "dot".
func (c *Client) Diagram(ctx context.Context, id, format string) ([]byte, error) {
	path := projectPath(id, "/diagram")
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}
	return c.doRaw(ctx, path)
}

// DiagramLayout fetches and decodes the JSON diagram of a project
func (c *Client) DiagramLayout(ctx context.Context, id string) (*render.Diagram, error) {
	var diagram render.Diagram
	if err := c.doJSON(ctx, http.MethodGet, projectPath(id, "/diagram"), nil, &diagram); err != nil {
		return nil, err
	}
	return &diagram, nil
}

func projectPath(id, suffix string) string {
	return "/projects/" + url.PathEscape(id) + suffix
}

// doJSON sends body as JSON and decodes a 2xx response into out. A nil out
// discards the response body.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		apiErr.Message = errResp.Error
		apiErr.Details = errResp.Details
	}
	return apiErr
}
