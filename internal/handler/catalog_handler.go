package handler

import (
	"net/http"

	"github.com/saludaldia/appointment-booking-service/internal/service"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	service service.CatalogService
	Logger  *logrus.Logger
}

func NewCatalogHandler(catalogService service.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: catalogService,
		Logger:  logger,
	}
}

func (h *CatalogHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.service.ListSpecialties(r.Context())
	if err != nil {
		BuildErrorResponse(h.Logger, w, err)
		return
	}
	BuildSuccessResponse(w, http.StatusOK, "specialties fetched", specialties)
}

func (h *CatalogHandler) ListPractitioners(w http.ResponseWriter, r *http.Request) {
	specialtyID := r.URL.Query().Get("specialtyId")
	practitioners, err := h.service.ListPractitioners(r.Context(), specialtyID)
	if err != nil {
		BuildErrorResponse(h.Logger, w, err)
		return
	}
	BuildSuccessResponse(w, http.StatusOK, "practitioners fetched", practitioners)
}
