package repository

import (
	"context"
	"errors"
	"time"

	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentRepository interface {
	BookSlot(ctx context.Context, appointment *domain.Appointment) error
	GetAppointment(ctx context.Context, id string) (domain.Appointment, bool, error)
	MarkCancelled(ctx context.Context, id string) (bool, error)
	FetchScheduledInstants(ctx context.Context, practitionerID string, from, to time.Time) ([]time.Time, error)
	FetchAppointmentsByAccount(ctx context.Context, accountID string) ([]domain.Appointment, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{
		db: db,
	}
}

// BookSlot inserts the appointment only if no scheduled appointment exists
// for the same practitioner and instant. The existence check and the insert
// run in one transaction with a row lock; the partial unique index on
// (practitioner_id, instant) WHERE status='scheduled' backstops the check
// across replicas.
func (r *appointmentRepository) BookSlot(ctx context.Context, appointment *domain.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []domain.Appointment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("practitioner_id = ? AND instant = ? AND status = ?",
				appointment.PractitionerID, appointment.Instant, domain.StatusScheduled).
			Find(&existing).Error
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domain.Conflict("slot is no longer available")
		}
		if err := tx.Create(appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.Conflict("slot is no longer available")
			}
			return err
		}
		return nil
	})
}

func (r *appointmentRepository) GetAppointment(ctx context.Context, id string) (domain.Appointment, bool, error) {
	var appointment domain.Appointment
	err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Appointment{}, false, nil
	}
	if err != nil {
		return domain.Appointment{}, false, err
	}
	return appointment, true, nil
}

// MarkCancelled flips a scheduled appointment to cancelled. The status guard
// in the WHERE clause makes a concurrent double-cancel lose the race cleanly:
// the second caller sees zero rows affected.
func (r *appointmentRepository) MarkCancelled(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("id = ? AND status = ?", id, domain.StatusScheduled).
		Update("status", domain.StatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *appointmentRepository) FetchScheduledInstants(ctx context.Context, practitionerID string, from, to time.Time) ([]time.Time, error) {
	var instants []time.Time
	err := r.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("practitioner_id = ? AND status = ? AND instant >= ? AND instant < ?",
			practitionerID, domain.StatusScheduled, from, to).
		Order("instant ASC").
		Pluck("instant", &instants).Error
	if err != nil {
		return nil, err
	}
	return instants, nil
}

func (r *appointmentRepository) FetchAppointmentsByAccount(ctx context.Context, accountID string) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("instant ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// CompleteElapsed marks scheduled appointments whose instant has passed as
// completed. Invoked by the cron sweep, never by read paths.
func (r *appointmentRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("status = ? AND instant < ?", domain.StatusScheduled, now).
		Update("status", domain.StatusCompleted)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
