package main

import (
	"database/sql"
	"net/http"

	"instapark/internal/api"
	"instapark/internal/auth"
	"instapark/internal/booking"
	"instapark/internal/config"
	"instapark/internal/logger"
	"instapark/internal/repository"
	"instapark/internal/service"
	"instapark/internal/session"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open DB", zap.Error(err))
	}
	if err := database.Ping(); err != nil {
		log.Fatal("failed to connect to DB", zap.Error(err))
	}

	// Repositories
	bookingRepo := repository.NewBookingRepository(database)
	contactRepo := repository.NewContactRepository(database)
	jobRepo := repository.NewJobRepository(database)
	adminAuthRepo := repository.NewAdminAuthRepository(database)

	// Services
	sender := service.NewSenderService(log)
	bookingSvc := service.NewBookingService(bookingRepo, sender, log)
	contactSvc := service.NewContactService(contactRepo, log)
	paymentSvc := service.NewPaymentService(cfg.StripeAPIKey, log)
	adminSvc := service.NewAdminService(bookingRepo, log)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo, cfg.JWTSecret)
	jobSvc := service.NewJobService(jobRepo, log)

	// Wizard sessions commit through the booking service.
	slots := booking.DefaultSlots()
	sessions := session.NewManager(slots, bookingSvc, cfg.TickInterval, log)

	// Handlers
	bookingHandler := api.NewBookingHandler(bookingSvc, log)
	contactHandler := api.NewContactHandler(contactSvc, log)
	slotHandler := api.NewSlotHandler(slots)
	sessionHandler := api.NewSessionHandler(sessions, paymentSvc, log)
	adminHandler := api.NewAdminHandler(adminSvc, contactSvc, log)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/bookings", bookingHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/api/contact", contactHandler.SubmitMessage).Methods("POST")
	r.HandleFunc("/api/slots", slotHandler.ListSlots).Methods("GET")
	r.HandleFunc("/api/price", slotHandler.QuotePrice).Methods("POST")

	// Booking wizard sessions
	r.HandleFunc("/api/sessions", sessionHandler.Create).Methods("POST")
	r.HandleFunc("/api/sessions/{id}", sessionHandler.Get).Methods("GET")
	r.HandleFunc("/api/sessions/{id}", sessionHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/selection", sessionHandler.UpdateSelection).Methods("PUT")
	r.HandleFunc("/api/sessions/{id}/details", sessionHandler.UpdateDetails).Methods("PUT")
	r.HandleFunc("/api/sessions/{id}/advance", sessionHandler.Advance).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/back", sessionHandler.Back).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/extend", sessionHandler.Extend).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/cancel", sessionHandler.Cancel).Methods("POST")

	// Admin endpoints (protected)
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.JWTSecret))
	admin.HandleFunc("/register", adminAuthHandler.Register).Methods("POST")
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/{id}/status", adminHandler.UpdateBookingStatus).Methods("PUT")
	admin.HandleFunc("/bookings/{id}", adminHandler.DeleteBooking).Methods("DELETE")
	admin.HandleFunc("/messages", adminHandler.ListContactMessages).Methods("GET")

	// Scheduled status sweep over persisted bookings
	c := cron.New()
	if _, err := c.AddFunc("@every 1m", jobSvc.Run); err != nil {
		log.Fatal("failed to schedule status sweep", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Info("server running", zap.String("port", cfg.Port))
	err = http.ListenAndServe(":"+cfg.Port, handlers.RecoveryHandler()(corsHandler(r)))
	log.Fatal("server stopped", zap.Error(err))
}
