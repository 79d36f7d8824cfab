package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courseforge-backend/internal/config"
	"courseforge-backend/internal/handlers"
	"courseforge-backend/internal/middleware"
	"courseforge-backend/internal/repository"
	"courseforge-backend/internal/router"
	"courseforge-backend/internal/services"
)

func main() {
	log.Println("Starting CourseForge Backend...")

	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	userRepo := repository.NewUserRepo(cfg.UsersFile)

	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini client initialized")

	normalizer := services.NewNormalizer(rand.New(rand.NewSource(time.Now().UnixNano())))
	pipeline := services.NewPipeline(geminiService, cfg.GeminiModel, normalizer)

	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, jwtAuth)
	fileExtractService := services.NewFileExtractService()

	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(pipeline)
	ocrHandler := handlers.NewOCRHandler(geminiService, cfg.GeminiVisionModel)
	extractHandler := handlers.NewExtractHandler(fileExtractService)

	r := router.New(jwtAuth, authHandler, courseHandler, ocrHandler, extractHandler, router.Options{
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins,
		ClientDist:     cfg.ClientDist,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
		// Generation passes can run for minutes; the write timeout has to
		// outlive the slowest upstream call.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ CourseForge Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
