// ABOUTME: End-to-end tests for rate limiting middleware
// ABOUTME: Tests write and default limits, the 429 body, and disable mode

package e2e

import (
	"net/http"
	"testing"

	"github.com/markalston/fabric-designer/backend/models"
)

func TestRateLimit_E2E_WriteEndpoints(t *testing.T) {
	ts := startServer(t, map[string]string{"RATE_LIMIT_WRITE": "2"})

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/projects", models.CreateProjectInput{Name: "p"}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Request %d should succeed, got %d", i+1, resp.StatusCode)
		}
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/projects", models.CreateProjectInput{Name: "p"}, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("Third write should be 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
	body := decodeBody[map[string]any](t, resp)
	if body["error"] != "Rate limit exceeded" {
		t.Errorf("Expected error 'Rate limit exceeded', got %v", body["error"])
	}

	// Reads draw from the default budget
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/projects", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Reads should not be limited by the write budget, got %d", resp.StatusCode)
	}
}

func TestRateLimit_E2E_DefaultLimit(t *testing.T) {
	ts := startServer(t, map[string]string{"RATE_LIMIT_DEFAULT": "3"})

	for i := 0; i < 3; i++ {
		if resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/switch-models", nil, nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d should succeed, got %d", i+1, resp.StatusCode)
		}
	}
	if resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/health", nil, nil); resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Fourth request should be 429, got %d", resp.StatusCode)
	}
}

func TestRateLimit_E2E_Disabled(t *testing.T) {
	ts := startServer(t, map[string]string{
		"RATE_LIMIT_ENABLED": "false",
		"RATE_LIMIT_WRITE":   "1",
	})

	for i := 0; i < 5; i++ {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/projects", models.CreateProjectInput{Name: "p"}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Request %d should succeed with rate limiting disabled, got %d", i+1, resp.StatusCode)
		}
	}
}
