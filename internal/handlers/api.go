package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"filedeck/internal/metrics"
)

// APIResponse is the body of a failed preferences request
type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// preferencesUpdate accepts fontSize as either a JSON number or a string,
// since the editor posts whatever the input field holds.
type preferencesUpdate struct {
	Theme    string      `json:"theme"`
	FontSize json.Number `json:"fontSize"`
}

// GET /getConfig - current preferences, defaults when none are stored
func (h *FileManagerHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Load()
	if err != nil {
		if prefs == nil {
			h.logger.Error("failed to load preferences", zap.Error(err))
			h.sendError(w, http.StatusInternalServerError, "Failed to load preferences")
			return
		}
		h.logger.Warn("serving unsaved default preferences", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

// POST /setConfig - update theme and fontSize. An empty theme keeps the
// stored one.
func (h *FileManagerHandler) HandleSetConfig(w http.ResponseWriter, r *http.Request) {
	update, err := h.decodePreferences(w, r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid preferences payload: "+err.Error())
		return
	}

	prefs, err := h.prefs.Load()
	if prefs == nil {
		h.logger.Error("failed to load preferences", zap.Error(err))
		h.sendError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}

	next := *prefs
	if theme := strings.TrimSpace(update.Theme); theme != "" {
		next.Theme = theme
	}
	if raw := strings.TrimSpace(update.FontSize.String()); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			h.sendError(w, http.StatusBadRequest, "fontSize must be a positive integer")
			return
		}
		next.FontSize = size
	}

	err = h.prefs.Save(&next)
	metrics.RecordOperation("setConfig", err)
	if err != nil {
		h.logger.Error("failed to save preferences", zap.Error(err))
		h.sendError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	h.logger.Debug("preferences updated", zap.String("theme", next.Theme), zap.Int("fontSize", next.FontSize))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (h *FileManagerHandler) decodePreferences(w http.ResponseWriter, r *http.Request) (*preferencesUpdate, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFieldBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var update preferencesUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			return nil, err
		}
		return &update, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &preferencesUpdate{
		Theme:    r.PostFormValue("theme"),
		FontSize: json.Number(r.PostFormValue("fontSize")),
	}, nil
}

func (h *FileManagerHandler) sendError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error:   errorMsg,
	})
}
