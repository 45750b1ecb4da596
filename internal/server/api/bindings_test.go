package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/pingpoint/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestBindingHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s, nil)

	if err := s.Bindings().Create(&store.Binding{HookName: "announce", Team: "home", Enabled: true}); err != nil {
		t.Fatalf("failed to create binding: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bindings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response listBindingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Bindings) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(response.Bindings))
	}
	if b := response.Bindings[0]; b.HookName != "announce" || b.Team != "home" || string(b.Config) != "{}" {
		t.Errorf("unexpected binding %+v", b)
	}
}

func TestBindingHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s, nil)

	body := bytes.NewBufferString(`{"hook_name":"keypress","team":"away","config":{"away":"Left"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bindings", body)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response bindingResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID == "" || !response.Enabled {
		t.Errorf("unexpected response %+v", response)
	}

	stored, err := s.Bindings().GetByID(response.ID)
	if err != nil {
		t.Fatalf("binding not stored: %v", err)
	}
	if stored.HookName != "keypress" || stored.Team != "away" {
		t.Errorf("stored binding %+v", stored)
	}
}

func TestBindingHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing hook name", `{"team":"home"}`},
		{"unknown team", `{"hook_name":"announce","team":"referee"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBindingHandler(newTestStore(t), nil)

			req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestBindingHandler_NotFound(t *testing.T) {
	handler := NewBindingHandler(newTestStore(t), nil)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/bindings/nonexistent", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", method, http.StatusNotFound, rec.Code)
		}
	}
}

func TestBindingHandler_MethodNotAllowed(t *testing.T) {
	handler := NewBindingHandler(newTestStore(t), nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/api/bindings"},
		{http.MethodDelete, "/api/bindings"},
		{http.MethodPost, "/api/bindings/some-id"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}

func TestDetectionHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewDetectionHandler(s)

	for _, team := range []string{"home", "away"} {
		if err := s.Detections().Create(&store.Detection{Mode: "gesture", Team: team, Label: "thumbsUp"}); err != nil {
			t.Fatalf("failed to create detection: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/detections", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listDetectionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Detections) != 2 {
		t.Errorf("expected 2 detections, got %d", len(response.Detections))
	}
	if response.Counts["home"] != 1 || response.Counts["away"] != 1 {
		t.Errorf("unexpected counts %v", response.Counts)
	}
}
