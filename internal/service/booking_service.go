package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"github.com/saludaldia/appointment-booking-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// EventProducer publishes appointment lifecycle events. Delivery is a stub
// boundary: failures are logged and never fail the operation.
type EventProducer interface {
	PublishAppointmentEvent(ctx context.Context, event domain.AppointmentEvent) error
}

type BookingService interface {
	AvailableSlots(ctx context.Context, practitionerID string, day time.Time) ([]domain.Slot, error)
	Book(ctx context.Context, accountID, practitionerID, specialtyID string, instant time.Time) (domain.Appointment, error)
	Cancel(ctx context.Context, accountID, appointmentID string) (domain.Appointment, error)
	Upcoming(ctx context.Context, accountID string) ([]domain.Appointment, error)
	Past(ctx context.Context, accountID string) ([]domain.Appointment, error)
	CompleteElapsed(ctx context.Context) (int64, error)
}

type bookingService struct {
	repo     repository.AppointmentRepository
	catalog  repository.CatalogRepository
	producer EventProducer
	Logger   *logrus.Logger
	now      func() time.Time
}

// NewBookingService wires the booking engine. now supplies the clock and must
// be injectable for deterministic tests; pass time.Now in production.
func NewBookingService(repo repository.AppointmentRepository, catalog repository.CatalogRepository, producer EventProducer, logger *logrus.Logger, now func() time.Time) BookingService {
	return &bookingService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
		Logger:   logger,
		now:      now,
	}
}

// AvailableSlots generates the day's candidate grid and prunes instants that
// already carry a scheduled appointment. Ordering is ascending by instant;
// callers group slots by time-of-day label and rely on it.
func (s *bookingService) AvailableSlots(ctx context.Context, practitionerID string, day time.Time) ([]domain.Slot, error) {
	_, found, err := s.catalog.GetPractitioner(ctx, practitionerID)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to load practitioner for availability")
		return nil, domain.Dependency(err)
	}
	if !found {
		return nil, domain.NotFound("practitioner", practitionerID)
	}

	candidates := GenerateSlots(practitionerID, day, s.now())
	if len(candidates) == 0 {
		return []domain.Slot{}, nil
	}

	dayOpen, dayClose := gridWindow(day)
	booked, err := s.repo.FetchScheduledInstants(ctx, practitionerID, dayOpen, dayClose)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{
			"Function":       "AvailableSlots",
			"PractitionerId": practitionerID,
			"Error":          err,
		}).Error("Failed to fetch scheduled appointments")
		return nil, domain.Dependency(err)
	}

	// The grid guarantees minute-aligned instants, so matching on the
	// truncated minute is exact.
	taken := make(map[int64]bool, len(booked))
	for _, instant := range booked {
		taken[instant.Truncate(time.Minute).Unix()] = true
	}

	available := []domain.Slot{}
	for _, slot := range candidates {
		if taken[slot.Instant.Unix()] {
			continue
		}
		available = append(available, slot)
	}
	return available, nil
}

// Book atomically converts a free slot into a scheduled appointment. The
// future check re-reads the clock at commit time rather than trusting a slot
// object fetched earlier.
func (s *bookingService) Book(ctx context.Context, accountID, practitionerID, specialtyID string, instant time.Time) (domain.Appointment, error) {
	if accountID == "" {
		return domain.Appointment{}, domain.Auth("no acting account")
	}

	details := map[string]string{}
	if practitionerID == "" {
		details["practitionerId"] = "required"
	}
	if specialtyID == "" {
		details["specialtyId"] = "required"
	}
	if instant.IsZero() {
		details["dateTime"] = "required"
	}
	if len(details) > 0 {
		return domain.Appointment{}, domain.Validation("missing required selections", details)
	}

	practitioner, found, err := s.catalog.GetPractitioner(ctx, practitionerID)
	if err != nil {
		return domain.Appointment{}, domain.Dependency(err)
	}
	if !found {
		return domain.Appointment{}, domain.NotFound("practitioner", practitionerID)
	}
	_, found, err = s.catalog.GetSpecialty(ctx, specialtyID)
	if err != nil {
		return domain.Appointment{}, domain.Dependency(err)
	}
	if !found {
		return domain.Appointment{}, domain.NotFound("specialty", specialtyID)
	}
	if practitioner.SpecialtyID != specialtyID {
		return domain.Appointment{}, domain.Validation("practitioner does not belong to the selected specialty", map[string]string{
			"specialtyId": "mismatch",
		})
	}

	now := s.now()
	// Clients send arbitrary RFC3339 offsets; the grid is defined in the
	// server frame. Normalize before the window check so a foreign offset
	// cannot pass validation while mapping to an off-grid instant here.
	instant = instant.In(now.Location())
	if !OnGrid(instant) {
		return domain.Appointment{}, domain.Validation("requested time is not a bookable slot", map[string]string{
			"dateTime": "must align to the half-hour booking grid",
		})
	}
	if !instant.After(now) {
		return domain.Appointment{}, domain.Validation("requested time is in the past", map[string]string{
			"dateTime": "must be in the future",
		})
	}

	appointment := domain.Appointment{
		ID:             uuid.New().String(),
		AccountID:      accountID,
		PractitionerID: practitionerID,
		SpecialtyID:    specialtyID,
		Instant:        instant,
		Status:         domain.StatusScheduled,
		CreatedAt:      now,
	}

	if err := s.repo.BookSlot(ctx, &appointment); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.Logger.WithFields(logrus.Fields{
				"Function":       "Book",
				"PractitionerId": practitionerID,
				"Instant":        instant,
			}).Info("Slot taken between availability check and commit")
			return domain.Appointment{}, err
		}
		s.Logger.WithError(err).Error("Failed to persist appointment")
		return domain.Appointment{}, domain.Dependency(err)
	}

	s.Logger.WithFields(logrus.Fields{
		"Function":       "Book",
		"AppointmentId":  appointment.ID,
		"AccountId":      accountID,
		"PractitionerId": practitionerID,
		"Instant":        instant,
	}).Info("Appointment booked")

	s.publishEvent(ctx, appointment, domain.EventBooked)
	return appointment, nil
}

// CancelCutoff is the cancellation window advertised in product copy. It is
// intentionally not enforced; product has not confirmed it as a hard rule.
const CancelCutoff = 24 * time.Hour

func (s *bookingService) Cancel(ctx context.Context, accountID, appointmentID string) (domain.Appointment, error) {
	if accountID == "" {
		return domain.Appointment{}, domain.Auth("no acting account")
	}

	appointment, found, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to load appointment")
		return domain.Appointment{}, domain.Dependency(err)
	}
	if !found {
		return domain.Appointment{}, domain.NotFound("appointment", appointmentID)
	}
	if appointment.AccountID != accountID {
		return domain.Appointment{}, domain.Auth("appointment belongs to another account")
	}
	if appointment.Status != domain.StatusScheduled {
		return domain.Appointment{}, domain.InvalidState("only scheduled appointments can be cancelled")
	}
	if !appointment.Instant.After(s.now()) {
		return domain.Appointment{}, domain.InvalidState("appointment time has already passed")
	}

	cancelled, err := s.repo.MarkCancelled(ctx, appointmentID)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to cancel appointment")
		return domain.Appointment{}, domain.Dependency(err)
	}
	if !cancelled {
		// Lost a race with another cancel or the completion sweep.
		return domain.Appointment{}, domain.InvalidState("only scheduled appointments can be cancelled")
	}
	appointment.Status = domain.StatusCancelled

	s.Logger.WithFields(logrus.Fields{
		"Function":      "Cancel",
		"AppointmentId": appointmentID,
		"AccountId":     accountID,
	}).Info("Appointment cancelled")

	s.publishEvent(ctx, appointment, domain.EventCancelled)
	return appointment, nil
}

// Upcoming returns the account's scheduled future appointments, soonest
// first.
func (s *bookingService) Upcoming(ctx context.Context, accountID string) ([]domain.Appointment, error) {
	if accountID == "" {
		return nil, domain.Auth("no acting account")
	}
	appointments, err := s.repo.FetchAppointmentsByAccount(ctx, accountID)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to fetch appointments")
		return nil, domain.Dependency(err)
	}

	now := s.now()
	upcoming := []domain.Appointment{}
	for _, appointment := range appointments {
		if appointment.Status == domain.StatusScheduled && !appointment.Instant.Before(now) {
			upcoming = append(upcoming, appointment)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Instant.Before(upcoming[j].Instant)
	})
	return upcoming, nil
}

// Past returns completed, cancelled, and lapsed scheduled appointments, most
// recent first.
func (s *bookingService) Past(ctx context.Context, accountID string) ([]domain.Appointment, error) {
	if accountID == "" {
		return nil, domain.Auth("no acting account")
	}
	appointments, err := s.repo.FetchAppointmentsByAccount(ctx, accountID)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to fetch appointments")
		return nil, domain.Dependency(err)
	}

	now := s.now()
	past := []domain.Appointment{}
	for _, appointment := range appointments {
		switch {
		case appointment.Status == domain.StatusCompleted, appointment.Status == domain.StatusCancelled:
			past = append(past, appointment)
		case appointment.Status == domain.StatusScheduled && appointment.Instant.Before(now):
			past = append(past, appointment)
		}
	}
	sort.Slice(past, func(i, j int) bool {
		return past[i].Instant.After(past[j].Instant)
	})
	return past, nil
}

// CompleteElapsed marks lapsed scheduled appointments as completed. Driven by
// the cron sweep.
func (s *bookingService) CompleteElapsed(ctx context.Context) (int64, error) {
	count, err := s.repo.CompleteElapsed(ctx, s.now())
	if err != nil {
		s.Logger.WithError(err).Error("Completion sweep failed")
		return 0, domain.Dependency(err)
	}
	if count > 0 {
		s.Logger.WithFields(logrus.Fields{
			"Function": "CompleteElapsed",
			"Count":    count,
		}).Info("Marked elapsed appointments completed")
	}
	return count, nil
}

func (s *bookingService) publishEvent(ctx context.Context, appointment domain.Appointment, eventType string) {
	if s.producer == nil {
		return
	}
	err := s.producer.PublishAppointmentEvent(ctx, domain.AppointmentEvent{
		AppointmentID:  appointment.ID,
		AccountID:      appointment.AccountID,
		PractitionerID: appointment.PractitionerID,
		SpecialtyID:    appointment.SpecialtyID,
		Instant:        appointment.Instant,
		Type:           eventType,
	})
	if err != nil {
		s.Logger.WithError(err).Warn("Failed to publish appointment event")
	}
}
