package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey      string
	GeminiModel       string
	GeminiVisionModel string

	// Auth
	JWTSecret string
	UsersFile string

	// Frontend
	AllowedOrigins []string
	ClientDist     string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Env:  getEnvOrDefault("ENV", "development"),

		// The key is intentionally not required at startup: the server
		// comes up without it and every generation request fails with an
		// explicit configuration error instead.
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnvOrDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiVisionModel: getEnvOrDefault("GEMINI_VISION_MODEL", "gemini-3-flash-preview"),

		JWTSecret: getEnvOrDefault("JWT_SECRET", "dev-secret-change-me"),
		UsersFile: getEnvOrDefault("USERS_FILE", "./data/users.json"),

		AllowedOrigins: splitAndTrim(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173")),
		ClientDist:     getEnvOrDefault("CLIENT_DIST", "./client/dist"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
