// ABOUTME: Test helpers for e2e tests
// ABOUTME: Starts the fully wired backend from environment configuration

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markalston/fabric-designer/backend/config"
	"github.com/markalston/fabric-designer/backend/server"
)

// newServer loads configuration from env (plus a missing ENV_FILE so a
// developer's .env never leaks in) and builds the server. The caller owns
// closing it.
func newServer(t *testing.T, env map[string]string) *server.Server {
	t.Helper()

	t.Setenv("ENV_FILE", t.TempDir()+"/missing.env")
	for _, key := range []string{"STORE_DRIVER", "STORE_PATH", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_ENABLED", "RATE_LIMIT_WRITE", "RATE_LIMIT_DEFAULT", "METRICS_ENABLED", "SWITCH_MODEL", "CACHE_TTL"} {
		t.Setenv(key, env[key])
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	srv, err := server.New(cfg)
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}
	return srv
}

// startServer serves a new server over a real listener until the test ends.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    ts := startServer(t, map[string]string{
//	        "CORS_ALLOWED_ORIGINS": "https://example.com",
//	    })
//	}
func startServer(t *testing.T, env map[string]string) *httptest.Server {
	t.Helper()

	srv := newServer(t, env)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		if err := srv.Close(); err != nil {
			t.Errorf("Failed to close server: %v", err)
		}
	})
	return ts
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}
