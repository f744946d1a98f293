package config

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/saludaldia/appointment-booking-service/internal/di"
	"github.com/saludaldia/appointment-booking-service/internal/handler"
	"github.com/saludaldia/appointment-booking-service/internal/repository"
	"github.com/saludaldia/appointment-booking-service/internal/service"
	"github.com/saludaldia/appointment-booking-service/internal/utils"
	"github.com/saludaldia/appointment-booking-service/logs"
)

// listenAddr accepts HTTP_PORT with or without the leading colon.
func listenAddr(port string) string {
	return ":" + strings.TrimPrefix(port, ":")
}

// HTTPSetup wires the repositories, services and handlers and returns the
// configured HTTP server.
func HTTPSetup(port string) *http.Server {
	logger := logs.NewLogger()

	db := InitDatabase()

	catalogRepo := repository.NewCatalogRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	var producer service.EventProducer
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		producer = di.NewKafkaProducer(broker)
	}

	catalogService := service.NewCatalogService(catalogRepo, logger)
	bookingService := service.NewBookingService(appointmentRepo, catalogRepo, producer, logger, time.Now)

	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	bookingHandler := handler.NewBookingHandler(bookingService, logger)

	utils.StartCronScheduler(bookingService, os.Getenv("COMPLETION_SWEEP_CRON"))

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(os.Getenv("CORS_ORIGINS"), ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	router.Use(httprate.LimitByIP(100, time.Minute))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/specialties", catalogHandler.ListSpecialties)
		r.Get("/practitioners", catalogHandler.ListPractitioners)
		r.Get("/practitioners/{practitionerId}/slots", bookingHandler.AvailableSlots)

		r.Group(func(r chi.Router) {
			r.Use(handler.Authenticate(jwtSecret, logger))
			r.Post("/appointments", bookingHandler.Book)
			r.Delete("/appointments/{appointmentId}", bookingHandler.Cancel)
			r.Get("/appointments/upcoming", bookingHandler.Upcoming)
			r.Get("/appointments/past", bookingHandler.Past)
		})
	})

	addr := listenAddr(port)
	log.Printf("HTTP server is running on %s", addr)
	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
