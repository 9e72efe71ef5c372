package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"concurso-backend/internal/models"
	"concurso-backend/internal/services"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["message"] != "ok" {
		t.Errorf("Expected message 'ok', got %q", body["message"])
	}
}

func TestErrorResp_CarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Project not found", req)
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request id 'req-123', got %q", resp.Error.RequestID)
	}
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Error.Code)
	}
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"name": "required"}}, http.StatusBadRequest},
		{"not found", &services.NotFoundError{Message: "Project not found"}, http.StatusNotFound},
		{"conflict", &services.ConflictError{Message: "duplicate"}, http.StatusConflict},
		{"unknown", bytes.ErrTooLarge, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
			rr := httptest.NewRecorder()

			handleServiceError(rr, req, tc.err)
			if rr.Code != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestUpload_NoFile(t *testing.T) {
	h := NewFileHandler(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("type", models.FileEdital)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	h.Upload(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	h := NewFileHandler(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("type", models.FileProva)
	fw, _ := mw.CreateFormFile("file", "notas.txt")
	fw.Write([]byte("apenas texto, sem cabecalho pdf"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	h.Upload(rr, req)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected 415, got %d", rr.Code)
	}
}

func TestUpload_RejectsUnknownType(t *testing.T) {
	h := NewFileHandler(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("type", "apostila")
	fw, _ := mw.CreateFormFile("file", "edital.pdf")
	fw.Write([]byte("%PDF-1.4 conteudo"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	h.Upload(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestGenerate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body models.GenerateQuestionsRequest
	}{
		{"missing file", models.GenerateQuestionsRequest{Subject: "Direito", Mode: models.QuestionMultiple}},
		{"missing subject", models.GenerateQuestionsRequest{FileID: "abc123def", Mode: models.QuestionMultiple}},
		{"bad mode", models.GenerateQuestionsRequest{FileID: "abc123def", Subject: "Direito", Mode: "essay"}},
	}

	h := NewStudyHandler(nil, nil)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tc.body)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/study/generate", bytes.NewReader(jsonBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			h.Generate(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
		})
	}
}
