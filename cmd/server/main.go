package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"parkzone/internal/api"
	"parkzone/internal/auth"
	"parkzone/internal/db"
	"parkzone/internal/repository"
	"parkzone/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	zoneRepo := repository.NewZoneRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	reservationRepo := repository.NewReservationRepository(database)
	adminRepo := repository.NewAdminRepository(database)
	jobRepo := repository.NewJobRepository(database)

	payments := service.NewPaymentService()
	notifier := service.NewNotifyService(service.NewSenderService())

	authSvc := service.NewAuthService(userRepo)
	zoneSvc := service.NewZoneService(zoneRepo)
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	reservationSvc := service.NewReservationService(reservationRepo, zoneRepo, vehicleRepo, userRepo, payments, notifier)
	adminSvc := service.NewAdminService(adminRepo)
	jobSvc := service.NewJobService(jobRepo, holdTTL())

	authHandler := api.NewAuthHandler(authSvc)
	zoneHandler := api.NewZoneHandler(zoneSvc, reservationSvc)
	vehicleHandler := api.NewVehicleHandler(vehicleSvc)
	reservationHandler := api.NewReservationHandler(reservationSvc)
	adminHandler := api.NewAdminHandler(adminSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/zones", zoneHandler.ListZones).Methods("GET")
	r.HandleFunc("/api/zones/{id}/availability", zoneHandler.Availability).Methods("GET")

	// Authenticated endpoints
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware)
	authed.HandleFunc("/users/me", authHandler.Me).Methods("GET")

	booking := authed.PathPrefix("").Subrouter()
	booking.Use(auth.Require(db.CapReserve))
	booking.HandleFunc("/vehicles", vehicleHandler.ListVehicles).Methods("GET")
	booking.HandleFunc("/vehicles", vehicleHandler.CreateVehicle).Methods("POST")
	booking.HandleFunc("/vehicles/{id}", vehicleHandler.DeleteVehicle).Methods("DELETE")
	booking.HandleFunc("/reservations", reservationHandler.CreateReservation).Methods("POST")
	booking.HandleFunc("/reservations/my", reservationHandler.ListMyReservations).Methods("GET")
	booking.HandleFunc("/reservations/{id}/pay", reservationHandler.PayReservation).Methods("POST")
	booking.HandleFunc("/reservations/{id}", reservationHandler.CancelReservation).Methods("DELETE")

	// Admin endpoints
	admin := authed.PathPrefix("").Subrouter()
	admin.Use(auth.Require(db.CapManageZones))
	admin.HandleFunc("/zones", zoneHandler.CreateZone).Methods("POST")
	admin.HandleFunc("/zones/{id}", zoneHandler.UpdateZone).Methods("PUT")
	admin.HandleFunc("/admin/stats", adminHandler.Stats).Methods("GET")
	admin.HandleFunc("/admin/reservations", adminHandler.LatestReservations).Methods("GET")

	c := cron.New()
	c.AddFunc("@every 1m", func() {
		if err := jobSvc.ExpireFinishedReservations(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
		if err := jobSvc.CancelStalePendingReservations(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}

func holdTTL() time.Duration {
	if raw := os.Getenv("RESERVATION_HOLD_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
			return ttl
		}
		log.Printf("Invalid RESERVATION_HOLD_TTL %q, using default", os.Getenv("RESERVATION_HOLD_TTL"))
	}
	return 30 * time.Minute
}
