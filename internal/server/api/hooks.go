package api

import (
	"net/http"

	"github.com/ayusman/pingpoint/internal/hook"
)

// HookHandler lists discovered hooks.
type HookHandler struct {
	manager *hook.Manager
}

// NewHookHandler creates a HookHandler.
func NewHookHandler(m *hook.Manager) *HookHandler {
	return &HookHandler{manager: m}
}

type hookResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Events      []string `json:"events"`
}

type listHooksResponse struct {
	Dir   string         `json:"dir"`
	Hooks []hookResponse `json:"hooks"`
}

// ServeHTTP handles GET /api/hooks. ?refresh=1 rescans the hook directory.
func (h *HookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Query().Get("refresh") != "" {
		if err := h.manager.Discover(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to discover hooks")
			return
		}
	}

	hooks := h.manager.List()
	response := listHooksResponse{
		Dir:   h.manager.Dir(),
		Hooks: make([]hookResponse, 0, len(hooks)),
	}
	for _, hk := range hooks {
		events := hk.Manifest.Events
		if events == nil {
			events = []string{}
		}
		response.Hooks = append(response.Hooks, hookResponse{
			Name:        hk.Manifest.Name,
			Version:     hk.Manifest.Version,
			Description: hk.Manifest.Description,
			Events:      events,
		})
	}

	writeJSON(w, http.StatusOK, response)
}
