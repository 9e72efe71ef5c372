package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"concurso-backend/internal/services"
)

type PreferencesHandler struct {
	study *services.StudyService
}

func NewPreferencesHandler(study *services.StudyService) *PreferencesHandler {
	return &PreferencesHandler{study: study}
}

// Get returns the UI preferences: current tab plus active project id.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	tab, err := h.study.CurrentTab(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch preferences", r))
		return
	}

	active, err := h.study.ActiveProjectID(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch preferences", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"currentTab":      tab,
		"activeProjectId": active,
	})
}

func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentTab string `json:"currentTab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	tab := strings.TrimSpace(req.CurrentTab)
	if tab == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{"currentTab": "Tab is required"}, r))
		return
	}

	if err := h.study.SetCurrentTab(r.Context(), tab); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save preferences", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"currentTab": tab})
}
