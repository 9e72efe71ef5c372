package handlers

import (
	"net/http"

	"concurso-backend/internal/services"
)

type ReportHandler struct {
	study  *services.StudyService
	report *services.ReportService
}

func NewReportHandler(study *services.StudyService, report *services.ReportService) *ReportHandler {
	return &ReportHandler{study: study, report: report}
}

// Get recomputes the performance report for the active project. The numeric
// half is always current; the narrative half may still read as pending.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	active, err := h.study.ActiveProjectID(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch active project", r))
		return
	}

	report, err := h.report.BuildReport(r.Context(), active)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("NOT_READY", "Report data is still loading", r))
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Recommendations returns the narrative split into presentation lines.
func (h *ReportHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	active, err := h.study.ActiveProjectID(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch active project", r))
		return
	}

	report, err := h.report.BuildReport(r.Context(), active)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("NOT_READY", "Report data is still loading", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": services.SplitRecommendations(report.AIRecommendations),
		"status":          report.RecommendationStatus,
	})
}
