package repository

import (
	"context"
	"errors"

	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	ListPractitioners(ctx context.Context) ([]domain.Practitioner, error)
	FetchPractitionersBySpecialty(ctx context.Context, specialtyID string) ([]domain.Practitioner, error)
	GetSpecialty(ctx context.Context, id string) (domain.Specialty, bool, error)
	GetPractitioner(ctx context.Context, id string) (domain.Practitioner, bool, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

func (r *catalogRepository) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	var specialties []domain.Specialty
	err := r.db.WithContext(ctx).Order("id ASC").Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}

func (r *catalogRepository) ListPractitioners(ctx context.Context) ([]domain.Practitioner, error) {
	var practitioners []domain.Practitioner
	err := r.db.WithContext(ctx).Order("id ASC").Find(&practitioners).Error
	if err != nil {
		return nil, err
	}
	return practitioners, nil
}

// FetchPractitionersBySpecialty returns an empty slice for an unknown
// specialty; that is not a failure.
func (r *catalogRepository) FetchPractitionersBySpecialty(ctx context.Context, specialtyID string) ([]domain.Practitioner, error) {
	var practitioners []domain.Practitioner
	err := r.db.WithContext(ctx).
		Where("specialty_id = ?", specialtyID).
		Order("id ASC").
		Find(&practitioners).Error
	if err != nil {
		return nil, err
	}
	return practitioners, nil
}

func (r *catalogRepository) GetSpecialty(ctx context.Context, id string) (domain.Specialty, bool, error) {
	var specialty domain.Specialty
	err := r.db.WithContext(ctx).First(&specialty, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Specialty{}, false, nil
	}
	if err != nil {
		return domain.Specialty{}, false, err
	}
	return specialty, true, nil
}

func (r *catalogRepository) GetPractitioner(ctx context.Context, id string) (domain.Practitioner, bool, error) {
	var practitioner domain.Practitioner
	err := r.db.WithContext(ctx).First(&practitioner, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Practitioner{}, false, nil
	}
	if err != nil {
		return domain.Practitioner{}, false, err
	}
	return practitioner, true, nil
}
