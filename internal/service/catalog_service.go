package service

import (
	"context"

	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"github.com/saludaldia/appointment-booking-service/internal/repository"
	"github.com/sirupsen/logrus"
)

type CatalogService interface {
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	ListPractitioners(ctx context.Context, specialtyID string) ([]domain.Practitioner, error)
}

type catalogService struct {
	repo   repository.CatalogRepository
	Logger *logrus.Logger
}

func NewCatalogService(repo repository.CatalogRepository, logger *logrus.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		Logger: logger,
	}
}

func (c *catalogService) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	specialties, err := c.repo.ListSpecialties(ctx)
	if err != nil {
		c.Logger.WithError(err).Error("Failed to list specialties")
		return nil, domain.Dependency(err)
	}
	return specialties, nil
}

// ListPractitioners filters by specialty when specialtyID is non-empty. An
// unknown specialty yields an empty slice, not an error.
func (c *catalogService) ListPractitioners(ctx context.Context, specialtyID string) ([]domain.Practitioner, error) {
	var practitioners []domain.Practitioner
	var err error
	if specialtyID != "" {
		practitioners, err = c.repo.FetchPractitionersBySpecialty(ctx, specialtyID)
	} else {
		practitioners, err = c.repo.ListPractitioners(ctx)
	}
	if err != nil {
		c.Logger.WithFields(logrus.Fields{
			"Function":    "ListPractitioners",
			"SpecialtyId": specialtyID,
			"Error":       err,
		}).Error("Failed to list practitioners")
		return nil, domain.Dependency(err)
	}
	return practitioners, nil
}
