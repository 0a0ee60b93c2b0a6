// ABOUTME: Tests for the health command
// ABOUTME: Verifies health check output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/markalston/fabric-designer/backend/models"
)

func TestFormatHealthHuman(t *testing.T) {
	resp := &models.HealthResponse{
		Status:      "ok",
		StoreDriver: "bolt",
		Projects:    2,
		SwitchModel: "9336C-FX2",
	}

	output := formatHealthHuman("http://localhost:8080", resp)

	for _, want := range []string{"http://localhost:8080", "Store:", "bolt", "9336C-FX2", "ok"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestFormatHealthJSON(t *testing.T) {
	resp := &models.HealthResponse{Status: "degraded", StoreDriver: "sqlite"}

	output := formatHealthJSON("http://localhost:8080", resp)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["backend"] != "http://localhost:8080" {
		t.Errorf("expected backend URL in JSON, got %v", parsed["backend"])
	}
	if parsed["status"] != "degraded" {
		t.Errorf("expected status degraded, got %v", parsed["status"])
	}
}

func TestHealthCommand_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.HealthResponse{Status: "ok", StoreDriver: "memory"})
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "memory") {
		t.Errorf("expected store driver in output, got %s", buf.String())
	}
}

func TestHealthCommand_Degraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.HealthResponse{Status: "degraded"})
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if exitCode := runHealth(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1 for degraded backend, got %d", exitCode)
	}
}

func TestHealthCommand_ConnectionError(t *testing.T) {
	apiURL = "http://localhost:99999"
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Error:") {
		t.Errorf("expected error message, got %s", buf.String())
	}
}
