package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"concurso-backend/internal/handlers"
	"concurso-backend/internal/middleware"
	"concurso-backend/internal/websocket"
)

func New(
	projectHandler *handlers.ProjectHandler,
	fileHandler *handlers.FileHandler,
	studyHandler *handlers.StudyHandler,
	reportHandler *handlers.ReportHandler,
	preferencesHandler *handlers.PreferencesHandler,
	jobHandler *handlers.JobHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Uploads and generation hit Gemini; keep them on a tighter budget.
	heavyLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Project Routes ────
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Post("/", projectHandler.Create)
			r.Put("/{id}", projectHandler.Rename)
			r.Delete("/{id}", projectHandler.Delete)
			r.Put("/{id}/activate", projectHandler.Activate)
		})

		// ──── File Routes ────
		r.Route("/files", func(r chi.Router) {
			r.Get("/", fileHandler.List)
			r.Delete("/{id}", fileHandler.Delete)
			r.Post("/{id}/cargo", fileHandler.SelectCargo)

			r.Group(func(r chi.Router) {
				r.Use(heavyLimiter.Middleware)
				r.Post("/upload", fileHandler.Upload)
			})
		})

		// ──── Study Routes ────
		r.Route("/study", func(r chi.Router) {
			r.Get("/questions/{jobId}", studyHandler.GetGenerated)

			r.Group(func(r chi.Router) {
				r.Use(heavyLimiter.Middleware)
				r.Post("/generate", studyHandler.Generate)
			})
		})

		// ──── Attempt Routes ────
		r.Route("/attempts", func(r chi.Router) {
			r.Get("/", studyHandler.ListAttempts)
			r.Post("/", studyHandler.FinishAttempt)
		})

		// ──── Report Routes ────
		r.Route("/report", func(r chi.Router) {
			r.Get("/", reportHandler.Get)
			r.Get("/recommendations", reportHandler.Recommendations)
		})

		// ──── Preference Routes ────
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", preferencesHandler.Get)
			r.Put("/", preferencesHandler.Update)
		})

		// ──── Job Routes ────
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/{id}", jobHandler.Get)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
