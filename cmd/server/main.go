package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"stepper-backend/internal/database"
	"stepper-backend/internal/handlers"
	customMiddleware "stepper-backend/internal/middleware"
	"stepper-backend/internal/repository"
	"stepper-backend/internal/slack"
	"stepper-backend/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "stepper")
	jwtSecret := getEnv("JWT_SECRET", "")
	jwtTTL := getEnv("JWT_TTL", "168h")
	port := getEnv("PORT", "8080")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(jwtTTL)
	if err != nil {
		log.Fatalf("❌ Invalid JWT_TTL %q: %v", jwtTTL, err)
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.Connect(ctx, mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo()
	profileRepo := repository.NewProfileRepo()

	// Ensure indexes
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create user indexes: %v", err)
	}
	if err := profileRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create profile indexes: %v", err)
	}

	// Token service and notifier (mock)
	tokens := token.NewService(jwtSecret, ttl)
	notifier := slack.NewMockSlack()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, profileRepo, tokens)
	profileHandler := handlers.NewProfileHandler(profileRepo, notifier)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"stepper-backend"}`))
	})

	// Public routes (no auth required)
	r.Post("/auth/signup", authHandler.Signup)
	r.Post("/auth/signin", authHandler.Signin)

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(tokens))

		r.Get("/profile/status", profileHandler.GetStatus)
		r.Post("/profile/step1", profileHandler.SubmitStep1)
		r.Get("/profile/step1", profileHandler.GetStep1)
		r.Post("/profile/step2", profileHandler.SubmitStep2)
		r.Get("/profile/step2", profileHandler.GetStep2)
		r.Post("/profile/step3", profileHandler.SubmitStep3)
		r.Get("/profile/step3", profileHandler.GetStep3)
	})

	// Start server
	log.Printf("🚀 Stepper backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
