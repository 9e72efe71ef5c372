package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"concurso-backend/internal/models"
	"concurso-backend/internal/services"
)

const maxUploadBytes = 25 * 1024 * 1024 // 25MB

type FileHandler struct {
	study *services.StudyService
}

func NewFileHandler(study *services.StudyService) *FileHandler {
	return &FileHandler{study: study}
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.study.Files(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch files", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

// Upload receives a multipart PDF plus its declared role (edital or prova),
// stores it under the active project and queues the matching analysis job.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 25MB limit", r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	fileType := r.FormValue("type")
	if fileType != models.FileEdital && fileType != models.FileProva {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{"type": "Type must be edital or prova"}, r))
		return
	}

	// Magic byte check before buffering the whole body
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if http.DetectContentType(buf[:n]) != "application/pdf" {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "Only PDF files are supported", r))
		return
	}
	file.Seek(0, io.SeekStart)

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read file", r))
		return
	}

	name := strings.TrimSpace(header.Filename)
	if name == "" {
		name = "documento.pdf"
	}

	stored, job, err := h.study.AddFile(r.Context(), name, fileType, data)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"file":   stored,
		"job_id": job.ID,
	})
}

func (h *FileHandler) SelectCargo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.SelectCargoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{"name": "Cargo name is required"}, r))
		return
	}

	file, err := h.study.SelectCargo(r.Context(), id, req.Name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.study.DeleteFile(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted"})
}
