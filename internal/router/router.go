package router

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"courseforge-backend/internal/handlers"
	"courseforge-backend/internal/middleware"
)

type Options struct {
	Env            string
	AllowedOrigins []string
	ClientDist     string
}

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	courseHandler *handlers.CourseHandler,
	ocrHandler *handlers.OCRHandler,
	extractHandler *handlers.ExtractHandler,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)

	// Cross-origin access only exists outside production; in production the
	// client bundle is served from this process.
	if opts.Env != "production" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Auth rate limiter (10 req/min per IP). Generation routes are left
	// uncapped on purpose: concurrency is bounded only by the upstream.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", authHandler.Me)
		})

		// ──── Generation Routes ────
		r.Route("/courses", func(r chi.Router) {
			r.Post("/generate", courseHandler.Generate)
			r.Post("/analyze", courseHandler.Analyze)
			r.Post("/focused", courseHandler.Focused)
		})

		// ──── OCR & Extraction ────
		r.Post("/ocr", ocrHandler.Extract)
		r.Post("/extract", extractHandler.Upload)
	})

	// In production, serve the pre-built client bundle with an index.html
	// fallback for client-side routes.
	if opts.Env == "production" && opts.ClientDist != "" {
		serveClientBundle(r, opts.ClientDist)
	}

	return r
}

func serveClientBundle(r chi.Router, dist string) {
	fileServer := http.FileServer(http.Dir(dist))
	index := filepath.Join(dist, "index.html")

	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		path := filepath.Join(dist, filepath.Clean(req.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, index)
	})
}
