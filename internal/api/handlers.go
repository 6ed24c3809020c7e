package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/service"
)

const maxBodyBytes = 1 << 20

type actionResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

type statusResponse struct {
	service.Status
	NextScheduledSync *time.Time `json:"nextScheduledSync,omitempty"`
	ServerUptime      float64    `json:"serverUptime"`
	ServerTime        time.Time  `json:"serverTime"`
}

type settingsResponse struct {
	Enabled     bool        `json:"enabled"`
	Time        string      `json:"time"`
	Mode        domain.Mode `json:"mode"`
	BatchSize   int         `json:"batchSize"`
	Concurrency int         `json:"concurrency"`
	NextRun     *time.Time  `json:"nextRun,omitempty"`
}

type syncRequest struct {
	PodcastIDs []int64 `json:"podcastIds" validate:"omitempty,dive,gt=0"`
}

// settingsRequest is merged onto the current settings; absent fields are kept. A
// batchSize or concurrency of 0 clears the override so the mode profile applies.
type settingsRequest struct {
	Enabled     *bool   `json:"enabled"`
	Time        *string `json:"time" validate:"omitnil,hhmm"`
	Mode        *string `json:"mode" validate:"omitnil,oneof=local remote"`
	BatchSize   *int    `json:"batchSize" validate:"omitnil,min=0,max=50"`
	Concurrency *int    `json:"concurrency" validate:"omitnil,min=0,max=8"`
}

func (req settingsRequest) apply(s domain.RunSettings) domain.RunSettings {
	if req.Enabled != nil {
		s.Enabled = *req.Enabled
	}
	if req.Time != nil {
		s.TimeOfDay = *req.Time
	}
	if req.Mode != nil {
		s.Mode = domain.Mode(*req.Mode)
	}
	if req.BatchSize != nil {
		s.BatchSize = *req.BatchSize
	}
	if req.Concurrency != nil {
		s.Concurrency = *req.Concurrency
	}
	return s
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	resp := statusResponse{
		Status:       h.controller.Status(),
		ServerUptime: now.Sub(h.started).Seconds(),
		ServerTime:   now.UTC(),
	}
	if next := h.scheduler.Next(); !next.IsZero() {
		resp.NextScheduledSync = &next
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) StartSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, actionResponse{Message: "Invalid request body: " + err.Error()})
		return
	}
	if err := validateStruct(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, actionResponse{Message: err.Error()})
		return
	}

	sessionID, err := h.scheduler.RunNow(r.Context(), req.PodcastIDs)
	switch {
	case errors.Is(err, domain.ErrAlreadyRunning):
		h.writeJSON(w, http.StatusBadRequest, actionResponse{Message: "Sync already in progress"})
	case err != nil:
		h.logger.Error("failed to start sync", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, actionResponse{Message: "Failed to start sync"})
	default:
		h.writeJSON(w, http.StatusOK, actionResponse{
			Success:   true,
			Message:   "Sync started",
			SessionID: sessionID,
		})
	}
}

func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.control(w, h.controller.Pause, "Sync paused")
}

func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.control(w, h.controller.Resume, "Sync resumed")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.control(w, h.controller.Cancel, "Sync cancellation requested")
}

func (h *Handler) control(w http.ResponseWriter, action func() error, message string) {
	err := action()
	switch {
	case errors.Is(err, domain.ErrNotRunning):
		h.writeJSON(w, http.StatusBadRequest, actionResponse{Message: "No sync in progress"})
	case err != nil:
		h.logger.Error("sync control failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, actionResponse{Message: err.Error()})
	default:
		h.writeJSON(w, http.StatusOK, actionResponse{Success: true, Message: message})
	}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.scheduler.Settings(r.Context())
	if err != nil {
		h.logger.Error("failed to load run settings", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, actionResponse{Message: "Failed to load settings"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.settingsResponse(settings))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, actionResponse{Message: "Invalid request body: " + err.Error()})
		return
	}
	if err := validateStruct(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, actionResponse{Message: err.Error()})
		return
	}

	updated, err := h.scheduler.MergeSettings(r.Context(), req.apply)
	switch {
	case errors.Is(err, domain.ErrInvalidSettings):
		h.writeJSON(w, http.StatusBadRequest, actionResponse{Message: err.Error()})
		return
	case err != nil:
		h.logger.Error("failed to update run settings", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, actionResponse{Message: "Failed to save settings"})
		return
	}

	h.writeJSON(w, http.StatusOK, h.settingsResponse(updated))
}

func (h *Handler) settingsResponse(s domain.RunSettings) settingsResponse {
	resp := settingsResponse{
		Enabled:     s.Enabled,
		Time:        s.TimeOfDay,
		Mode:        s.Mode,
		BatchSize:   s.BatchSize,
		Concurrency: s.Concurrency,
	}
	if next := h.scheduler.Next(); s.Enabled && !next.IsZero() {
		resp.NextRun = &next
	}
	return resp
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}
