package utils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookingService struct {
	sweeps atomic.Int64
}

func (s *stubBookingService) AvailableSlots(ctx context.Context, practitionerID string, day time.Time) ([]domain.Slot, error) {
	return nil, nil
}

func (s *stubBookingService) Book(ctx context.Context, accountID, practitionerID, specialtyID string, instant time.Time) (domain.Appointment, error) {
	return domain.Appointment{}, nil
}

func (s *stubBookingService) Cancel(ctx context.Context, accountID, appointmentID string) (domain.Appointment, error) {
	return domain.Appointment{}, nil
}

func (s *stubBookingService) Upcoming(ctx context.Context, accountID string) ([]domain.Appointment, error) {
	return nil, nil
}

func (s *stubBookingService) Past(ctx context.Context, accountID string) ([]domain.Appointment, error) {
	return nil, nil
}

func (s *stubBookingService) CompleteElapsed(ctx context.Context) (int64, error) {
	s.sweeps.Add(1)
	return 0, nil
}

func TestStartCronScheduler(t *testing.T) {
	t.Run("Empty Spec Disables Sweep", func(t *testing.T) {
		scheduler := StartCronScheduler(&stubBookingService{}, "")
		assert.Nil(t, scheduler)
	})

	t.Run("Returns Running Scheduler Without Blocking", func(t *testing.T) {
		scheduler := StartCronScheduler(&stubBookingService{}, "@every 1h")
		require.NotNil(t, scheduler)
		defer scheduler.Stop()

		entries := scheduler.Entries()
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Next.IsZero(), "sweep is scheduled")
	})
}
