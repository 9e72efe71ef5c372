package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"concurso-backend/internal/models"
	"concurso-backend/internal/services"
)

type StudyHandler struct {
	study *services.StudyService
	redis *redis.Client
}

func NewStudyHandler(study *services.StudyService, redisClient *redis.Client) *StudyHandler {
	return &StudyHandler{study: study, redis: redisClient}
}

// Generate queues a question-generation job against a ready study file.
// The questions arrive asynchronously; the client follows the job via the
// websocket and fetches the result once completed.
func (h *StudyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.FileID) == "" {
		fields["fileId"] = "File id is required"
	}
	if strings.TrimSpace(req.Subject) == "" {
		fields["subject"] = "Subject is required"
	}
	switch req.Mode {
	case models.QuestionMultiple, models.QuestionBoolean, models.QuestionFlashcard:
	default:
		fields["mode"] = "Mode must be multiple, boolean or flashcard"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}
	if req.Count > 20 {
		req.Count = 20
	}

	job, err := h.study.QueueJob(r.Context(), models.JobQuestionGeneration, req.FileID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"job_id": job.ID})
}

// GetGenerated returns the questions produced by a completed generation job.
// Results live in Redis with a TTL; an expired or unknown job reads as 404.
func (h *StudyHandler) GetGenerated(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")

	raw, err := h.redis.Get(r.Context(), "generated:"+jobID).Result()
	if err == redis.Nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No generated questions for this job", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch questions", r))
		return
	}

	var questions []models.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Stored questions are corrupted", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

func (h *StudyHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.study.Attempts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch attempts", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}

func (h *StudyHandler) FinishAttempt(w http.ResponseWriter, r *http.Request) {
	var req models.FinishAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	attempt, err := h.study.FinishAttempt(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, attempt)
}
