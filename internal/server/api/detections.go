package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/pingpoint/internal/store"
)

// DefaultDetectionLimit is the page size of GET /api/detections.
const DefaultDetectionLimit = 50

// DetectionHandler serves the detection log.
type DetectionHandler struct {
	store *store.Store
}

// NewDetectionHandler creates a DetectionHandler.
func NewDetectionHandler(s *store.Store) *DetectionHandler {
	return &DetectionHandler{store: s}
}

type detectionResponse struct {
	ID        string `json:"id"`
	Mode      string `json:"mode"`
	Team      string `json:"team"`
	Label     string `json:"label,omitempty"`
	CreatedAt string `json:"created_at"`
}

type listDetectionsResponse struct {
	Detections []detectionResponse `json:"detections"`
	Counts     map[string]int      `json:"counts"`
}

// ServeHTTP handles GET (newest first, ?limit=N) and DELETE on
// /api/detections.
func (h *DetectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DetectionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultDetectionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	detections, err := h.store.Detections().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list detections")
		return
	}
	counts, err := h.store.Detections().CountByTeam()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count detections")
		return
	}

	response := listDetectionsResponse{
		Detections: make([]detectionResponse, 0, len(detections)),
		Counts:     counts,
	}
	for _, d := range detections {
		response.Detections = append(response.Detections, detectionResponse{
			ID:        d.ID,
			Mode:      d.Mode,
			Team:      d.Team,
			Label:     d.Label,
			CreatedAt: formatTime(d.CreatedAt),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *DetectionHandler) clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Detections().DeleteAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear detections")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
