package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/pingpoint/internal/event"
	"github.com/ayusman/pingpoint/internal/hook"
	"github.com/ayusman/pingpoint/internal/store"
)

// BindingHandler handles HTTP requests for hook bindings.
type BindingHandler struct {
	store *store.Store
	hooks *hook.Manager
}

// NewBindingHandler creates a BindingHandler. When hooks is non-nil, new
// bindings must name a discovered hook.
func NewBindingHandler(s *store.Store, hooks *hook.Manager) *BindingHandler {
	return &BindingHandler{store: s, hooks: hooks}
}

// ServeHTTP routes /api/bindings and /api/bindings/{id}.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createBindingRequest struct {
	HookName string          `json:"hook_name"`
	Team     string          `json:"team"`
	Config   json.RawMessage `json:"config"`
}

type updateBindingRequest struct {
	HookName string          `json:"hook_name"`
	Team     *string         `json:"team"`
	Config   json.RawMessage `json:"config"`
	Enabled  *bool           `json:"enabled"`
}

type bindingResponse struct {
	ID        string          `json:"id"`
	HookName  string          `json:"hook_name"`
	Team      string          `json:"team"`
	Config    json.RawMessage `json:"config"`
	Enabled   bool            `json:"enabled"`
	CreatedAt string          `json:"created_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	config := b.Config
	if config == nil {
		config = json.RawMessage("{}")
	}
	return bindingResponse{
		ID:        b.ID,
		HookName:  b.HookName,
		Team:      b.Team,
		Config:    config,
		Enabled:   b.Enabled,
		CreatedAt: formatTime(b.CreatedAt),
	}
}

// validTeam accepts an empty team, which matches both sides.
func validTeam(team string) bool {
	return team == "" || event.Team(team).Valid()
}

// checkHook writes an error and returns false when name is not a known hook.
func (h *BindingHandler) checkHook(w http.ResponseWriter, name string) bool {
	if h.hooks == nil {
		return true
	}
	if _, err := h.hooks.Get(name); err != nil {
		writeError(w, http.StatusBadRequest, "Hook not found")
		return false
	}
	return true
}

func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toBindingResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(binding))
}

func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.HookName == "" {
		writeError(w, http.StatusBadRequest, "hook_name is required")
		return
	}
	if !validTeam(req.Team) {
		writeError(w, http.StatusBadRequest, "team must be home, away or empty")
		return
	}
	if !h.checkHook(w, req.HookName) {
		return
	}

	binding := &store.Binding{
		HookName: req.HookName,
		Team:     req.Team,
		Config:   req.Config,
		Enabled:  true,
	}
	if err := h.store.Bindings().Create(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	writeJSON(w, http.StatusCreated, toBindingResponse(binding))
}

func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	var req updateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.HookName != "" {
		if !h.checkHook(w, req.HookName) {
			return
		}
		binding.HookName = req.HookName
	}
	if req.Team != nil {
		if !validTeam(*req.Team) {
			writeError(w, http.StatusBadRequest, "team must be home, away or empty")
			return
		}
		binding.Team = *req.Team
	}
	if req.Config != nil {
		binding.Config = req.Config
	}
	if req.Enabled != nil {
		binding.Enabled = *req.Enabled
	}

	if err := h.store.Bindings().Update(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(binding))
}

func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Bindings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
