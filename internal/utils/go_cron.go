package utils

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/saludaldia/appointment-booking-service/internal/service"
)

// StartCronScheduler runs the completion sweep on the given cron spec,
// marking elapsed scheduled appointments completed. An empty spec disables
// the sweep and returns nil; the past view classifies lapsed appointments
// correctly either way. The returned scheduler runs in its own goroutine;
// callers may Stop it on shutdown.
func StartCronScheduler(bookingService service.BookingService, spec string) *cron.Cron {
	if spec == "" {
		return nil
	}
	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		if _, err := bookingService.CompleteElapsed(context.Background()); err != nil {
			log.Printf("Completion sweep run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule completion sweep: %v", err)
	}
	scheduler.Start()
	return scheduler
}
