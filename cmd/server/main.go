package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concurso-backend/internal/config"
	"concurso-backend/internal/database"
	"concurso-backend/internal/handlers"
	"concurso-backend/internal/repository"
	"concurso-backend/internal/router"
	"concurso-backend/internal/services"
	"concurso-backend/internal/websocket"
	"concurso-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Concurso Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	projectRepo := repository.NewProjectRepo(pool)
	attemptRepo := repository.NewAttemptRepo(pool)
	fileRepo := repository.NewFileRepo(pool)
	jobRepo := repository.NewJobRepo(pool)
	prefRepo := repository.NewPrefRepo(redisClients.Queue)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiConcurrentReqs,
		redisClients.Queue,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	studyService := services.NewStudyService(projectRepo, attemptRepo, fileRepo, jobRepo, prefRepo, redisClients.Queue)
	reportService := services.NewReportService(attemptRepo, studyService)

	// ──── Step 6: Startup Load ────
	// Seeds the default project and restores the active selection. Reports
	// stay unavailable until this completes.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := studyService.Init(initCtx); err != nil {
		cancelInit()
		log.Fatalf("✗ Startup load failed: %v", err)
	}
	cancelInit()
	reportService.SetReady()
	log.Println("✓ Startup load completed")

	// ──── Initialize Handlers ────
	projectHandler := handlers.NewProjectHandler(studyService)
	fileHandler := handlers.NewFileHandler(studyService)
	studyHandler := handlers.NewStudyHandler(studyService, redisClients.Queue)
	reportHandler := handlers.NewReportHandler(studyService, reportService)
	preferencesHandler := handlers.NewPreferencesHandler(studyService)
	jobHandler := handlers.NewJobHandler(jobRepo)

	// ──── Step 7: Start Job Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		geminiService,
		reportService,
		jobRepo,
		fileRepo,
		cfg.WorkerCount,
	)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 8: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub)
	log.Println("✓ WebSocket hub started")

	// ──── Step 9: Start HTTP Server ────
	r := router.New(
		projectHandler,
		fileHandler,
		studyHandler,
		reportHandler,
		preferencesHandler,
		jobHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Concurso Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
