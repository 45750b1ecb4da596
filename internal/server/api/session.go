package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/pingpoint/internal/app"
	"github.com/ayusman/pingpoint/internal/config"
	"github.com/ayusman/pingpoint/internal/gesture"
)

// SessionHandler exposes the detection session: status, start/stop,
// calibration and tuning.
type SessionHandler struct {
	session *app.Session
	// ctx outlives requests; the detection loop stops when it is done.
	ctx context.Context
}

// NewSessionHandler creates a SessionHandler. Sessions started over HTTP run
// until Stop is called or ctx is done.
func NewSessionHandler(ctx context.Context, s *app.Session) *SessionHandler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &SessionHandler{session: s, ctx: ctx}
}

// ServeHTTP routes /api/status, /api/session/{start,stop}, /api/calibration
// and /api/settings.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch path := strings.TrimSuffix(r.URL.Path, "/"); path {
	case "/api/status":
		h.status(w, r)
	case "/api/session/start":
		h.start(w, r)
	case "/api/session/stop":
		h.stop(w, r)
	case "/api/calibration":
		h.calibration(w, r)
	case "/api/settings":
		h.settings(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.session.Status())
}

func (h *SessionHandler) start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.session.Start(h.ctx); err != nil {
		switch {
		case errors.Is(err, app.ErrRunning):
			writeError(w, http.StatusConflict, "Session already running")
		case errors.Is(err, app.ErrNoFrameSource), errors.Is(err, app.ErrNoHandDetector):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, h.session.Status())
}

func (h *SessionHandler) stop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.session.Stop()
	writeJSON(w, http.StatusOK, h.session.Status())
}

type calibrationRequest struct {
	LeftWidth  *float64 `json:"left_width"`
	RightWidth *float64 `json:"right_width"`
}

type calibrationResponse struct {
	LeftWidth   float64 `json:"left_width"`
	RightWidth  float64 `json:"right_width"`
	CenterWidth float64 `json:"center_width"`
}

func (h *SessionHandler) calibrationResponse() calibrationResponse {
	z := h.session.Zones()
	return calibrationResponse{
		LeftWidth:   z.LeftWidth,
		RightWidth:  z.RightWidth,
		CenterWidth: z.CenterWidth(),
	}
}

func (h *SessionHandler) calibration(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.calibrationResponse())

	case http.MethodPut:
		var req calibrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.LeftWidth == nil || req.RightWidth == nil {
			writeError(w, http.StatusBadRequest, "left_width and right_width are required")
			return
		}

		// Widths are stored as given; overlapping bands are allowed.
		if err := h.session.Calibrate(*req.LeftWidth, *req.RightWidth); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save calibration")
			return
		}
		writeJSON(w, http.StatusOK, h.calibrationResponse())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type settingsRequest struct {
	Sensitivity       *float64 `json:"sensitivity"`
	BallDebounceMs    *int64   `json:"ball_debounce_ms"`
	GestureDebounceMs *int64   `json:"gesture_debounce_ms"`
	Policy            *string  `json:"policy"`
	Mode              *string  `json:"mode"`
	Enabled           *bool    `json:"enabled"`
}

type settingsResponse struct {
	app.Tuning
	Enabled bool `json:"enabled"`
}

func (h *SessionHandler) settingsResponse() settingsResponse {
	return settingsResponse{
		Tuning:  h.session.Tuning(),
		Enabled: h.session.IsEnabled(),
	}
}

func (h *SessionHandler) settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.settingsResponse())

	case http.MethodPut:
		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if status, msg := h.applySettings(req); status != 0 {
			writeError(w, status, msg)
			return
		}
		writeJSON(w, http.StatusOK, h.settingsResponse())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// applySettings validates every field before changing anything. It returns
// a non-zero status on failure.
func (h *SessionHandler) applySettings(req settingsRequest) (int, string) {
	var (
		policy gesture.Policy
		mode   config.Mode
		err    error
	)
	if req.Sensitivity != nil && (*req.Sensitivity < 0 || *req.Sensitivity > 1) {
		return http.StatusBadRequest, "sensitivity must be between 0 and 1"
	}
	if req.BallDebounceMs != nil && *req.BallDebounceMs < 0 {
		return http.StatusBadRequest, "ball_debounce_ms must not be negative"
	}
	if req.GestureDebounceMs != nil && *req.GestureDebounceMs < 0 {
		return http.StatusBadRequest, "gesture_debounce_ms must not be negative"
	}
	if req.Policy != nil {
		if policy, err = gesture.ParsePolicy(*req.Policy); err != nil {
			return http.StatusBadRequest, err.Error()
		}
	}
	if req.Mode != nil {
		if mode, err = config.ParseMode(*req.Mode); err != nil {
			return http.StatusBadRequest, err.Error()
		}
		if mode != h.session.Mode() && h.session.IsRunning() {
			return http.StatusConflict, "Stop the session before changing mode"
		}
	}

	var errs []error
	if req.Sensitivity != nil {
		errs = append(errs, h.session.SetSensitivity(*req.Sensitivity))
	}
	if req.BallDebounceMs != nil {
		errs = append(errs, h.session.SetBallDebounce(time.Duration(*req.BallDebounceMs)*time.Millisecond))
	}
	if req.GestureDebounceMs != nil {
		errs = append(errs, h.session.SetGestureDebounce(time.Duration(*req.GestureDebounceMs)*time.Millisecond))
	}
	if req.Policy != nil {
		errs = append(errs, h.session.SetPolicy(policy))
	}
	if req.Mode != nil && mode != h.session.Mode() {
		errs = append(errs, h.session.SetMode(mode))
	}
	if req.Enabled != nil {
		h.session.SetEnabled(*req.Enabled)
	}

	if err := errors.Join(errs...); err != nil {
		return http.StatusInternalServerError, "Failed to save settings"
	}
	return 0, ""
}
