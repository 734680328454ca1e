package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mockexam/booking-backend/docs"
	"github.com/mockexam/booking-backend/internal/audit"
	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/database"
	"github.com/mockexam/booking-backend/internal/handlers"
	"github.com/mockexam/booking-backend/internal/hubspot"
	mW "github.com/mockexam/booking-backend/internal/middleware"
	"github.com/mockexam/booking-backend/internal/services"
	"github.com/mockexam/booking-backend/internal/tasks"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Mock Exam Booking API
// @version 1.0
// @description Booking, cancellation and capacity reconciliation for mock exam sessions stored in HubSpot
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg := config.Load()

	docs.SwaggerInfo.Title = "Mock Exam Booking API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	var sink tasks.Sink = tasks.LogSink{}
	var deadLetters handlers.DeadLetterStore
	if cfg.DatabaseEnabled {
		db, err := database.InitDB()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		pgSink := tasks.NewPostgresSink(db)
		sink, deadLetters = pgSink, pgSink
	}

	hubspotClient := hubspot.NewClient(cfg.HubSpot)
	objects := cfg.HubSpot.Objects

	runner := tasks.NewRunner(cfg.Booking.TaskTimeout, sink)
	auditLogger := audit.NewLogger()
	examCache := services.NewExamCache(redisClient, cfg.Booking.ExamsCacheTTL)

	reconciler := services.NewReconciler(hubspotClient, objects, cfg.Booking, examCache)
	bookingService := services.NewBookingService(hubspotClient, objects, cfg.Booking, examCache, runner, auditLogger)
	examService := services.NewExamService(hubspotClient, objects, cfg.Booking, reconciler, examCache)

	bookingHandler := handlers.NewBookingHandler(bookingService)
	examHandler := handlers.NewExamHandler(examService)
	webhookHandler := handlers.NewWebhookHandler(reconciler)
	adminHandler := handlers.NewAdminHandler(reconciler, deadLetters, auditLogger)

	limiter := mW.NewRateLimiter(redisClient, cfg.Booking.RateLimitRequests, cfg.Booking.RateLimitWindow)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "healthy",
			"redis":  redisClient != nil,
		})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.With(limiter.Limit("bookings")).Post("/bookings", bookingHandler.CreateBooking)
		r.Get("/bookings", bookingHandler.ListBookings)
		r.With(limiter.Limit("cancellations")).Post("/bookings/{bookingId}/cancel", bookingHandler.CancelBooking)
		r.With(limiter.Limit("cancellations")).Delete("/bookings/{bookingId}", bookingHandler.CancelBooking)

		r.With(limiter.Limit("listings")).Get("/mock-exams/available", examHandler.ListAvailable)

		r.With(mW.HubSpotSignature(cfg.HubSpot.WebhookSecret, time.Now)).Post("/webhooks/hubspot", webhookHandler.HandleHubSpot)

		r.Route("/admin", func(r chi.Router) {
			r.Use(mW.AdminAuth(cfg.JWT.SecretKey))
			r.Post("/mock-exams/recalculate", adminHandler.RecalculateAll)
			r.Post("/mock-exams/{examId}/recalculate", adminHandler.RecalculateExam)
			r.Get("/dead-letters", adminHandler.ListDeadLetters)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := runner.Shutdown(ctx); err != nil {
		log.Printf("Background tasks did not finish: %v", err)
	}

	log.Println("Server exited")
}
