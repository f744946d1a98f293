package service

import (
	"time"

	"github.com/saludaldia/appointment-booking-service/internal/domain"
)

// Grid policy: one bookable instant every 30 minutes from 08:00 to 17:30
// inclusive, giving a hard 18:00 end-of-day boundary. A single global grid is
// a deliberate simplification; practitioner-specific working hours are not
// modeled.
const (
	GridOpenHour  = 8
	GridCloseHour = 18
	GridStep      = 30 * time.Minute
)

// GenerateSlots returns the candidate slot instants for the practitioner on
// the given day, ascending. Instants not strictly after now are dropped from
// the candidate set entirely. An empty result is valid.
func GenerateSlots(practitionerID string, day time.Time, now time.Time) []domain.Slot {
	dayOpen, dayClose := gridWindow(day)

	slots := []domain.Slot{}
	for t := dayOpen; t.Before(dayClose); t = t.Add(GridStep) {
		if !t.After(now) {
			continue
		}
		slots = append(slots, domain.Slot{
			PractitionerID: practitionerID,
			Instant:        t,
			IsAvailable:    true,
		})
	}
	return slots
}

// OnGrid reports whether the instant is a valid slot start: minute-aligned to
// the half-hour step and inside the day's booking window.
func OnGrid(t time.Time) bool {
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	if t.Minute() != 0 && t.Minute() != 30 {
		return false
	}
	return t.Hour() >= GridOpenHour && t.Hour() < GridCloseHour
}

func gridWindow(day time.Time) (time.Time, time.Time) {
	dayOpen := time.Date(day.Year(), day.Month(), day.Day(), GridOpenHour, 0, 0, 0, day.Location())
	dayClose := time.Date(day.Year(), day.Month(), day.Day(), GridCloseHour, 0, 0, 0, day.Location())
	return dayOpen, dayClose
}
