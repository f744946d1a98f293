package main

import (
	"log"
	"os"

	"github.com/saludaldia/appointment-booking-service/internal/config"
	"github.com/saludaldia/appointment-booking-service/internal/di"
)

func main() {
	config.LoadEnv()
	port := os.Getenv("HTTP_PORT")
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		di.EnsureTopicExists(broker, di.AppointmentTopic)
	}
	server := config.HTTPSetup(port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Failed to serve HTTP server: %v", err)
	}
}
