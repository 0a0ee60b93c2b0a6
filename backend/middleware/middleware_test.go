// ABOUTME: Tests for middleware chaining, JSON errors, and request metrics
// ABOUTME: Verifies ordering and that the route pattern reaches the observer

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markalston/fabric-designer/backend/models"
)

func TestChain_AppliesMiddlewareInOrder(t *testing.T) {
	var order []string

	first := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "first-before")
			next(w, r)
			order = append(order, "first-after")
		}
	}

	second := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "second-before")
			next(w, r)
			order = append(order, "second-after")
		}
	}

	handler := Chain(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}, first, second)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	expected := []string{"first-before", "second-before", "handler", "second-after", "first-after"}
	if len(order) != len(expected) {
		t.Fatalf("order length = %d, want %d", len(order), len(expected))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("order[%d] = %q, want %q", i, order[i], v)
		}
	}
}

func TestChain_EmptyMiddlewares(t *testing.T) {
	handlerCalled := false
	handler := Chain(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if !handlerCalled {
		t.Error("Handler should be called with empty middleware chain")
	}
}

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSONError(rec, "Method not allowed", http.StatusMethodNotAllowed)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	var body models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "Method not allowed" || body.Code != http.StatusMethodNotAllowed {
		t.Errorf("Unexpected body: %+v", body)
	}
}

type recordedRequest struct {
	route  string
	method string
	status int
}

type fakeObserver struct {
	requests []recordedRequest
}

func (f *fakeObserver) ObserveRequest(route, method string, status int) {
	f.requests = append(f.requests, recordedRequest{route, method, status})
}

func TestMetrics_RecordsPatternAndStatus(t *testing.T) {
	obs := &fakeObserver{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/projects/{id}", Chain(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, Metrics(obs)))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects/abc", nil))

	if len(obs.requests) != 1 {
		t.Fatalf("Expected 1 observation, got %d", len(obs.requests))
	}
	got := obs.requests[0]
	if got.route != "GET /api/v1/projects/{id}" {
		t.Errorf("route = %q, want %q", got.route, "GET /api/v1/projects/{id}")
	}
	if got.status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", got.status, http.StatusNotFound)
	}
}

func TestMetrics_DefaultsStatusToOK(t *testing.T) {
	obs := &fakeObserver{}
	handler := Metrics(obs)(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(obs.requests) != 1 || obs.requests[0].status != http.StatusOK {
		t.Errorf("Expected one 200 observation, got %+v", obs.requests)
	}
}

func TestMetrics_NilObserverPassesThrough(t *testing.T) {
	called := false
	handler := Metrics(nil)(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Error("Handler should be called when observer is nil")
	}
}

func TestLogRequestAndMetrics_ShareStatus(t *testing.T) {
	obs := &fakeObserver{}
	handler := Chain(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}, LogRequest, Metrics(obs))

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(obs.requests) != 1 || obs.requests[0].status != http.StatusTeapot {
		t.Errorf("Expected first status to win, got %+v", obs.requests)
	}
}
