package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"github.com/saludaldia/appointment-booking-service/internal/service"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	service  service.BookingService
	validate *validator.Validate
	Logger   *logrus.Logger
}

func NewBookingHandler(bookingService service.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		service:  bookingService,
		validate: validator.New(),
		Logger:   logger,
	}
}

type bookAppointmentRequest struct {
	PractitionerID string `json:"practitionerId" validate:"required"`
	SpecialtyID    string `json:"specialtyId" validate:"required"`
	DateTime       string `json:"dateTime" validate:"required"`
}

// AvailableSlots serves the free grid slots for a practitioner on a day.
// The date parameter is a calendar day, interpreted in the server location.
func (h *BookingHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	practitionerID := chi.URLParam(r, "practitionerId")
	dateParam := r.URL.Query().Get("date")

	day, err := time.ParseInLocation("2006-01-02", dateParam, time.Local)
	if err != nil {
		BuildErrorResponse(h.Logger, w, domain.Validation("invalid date", map[string]string{
			"date": "expected YYYY-MM-DD",
		}))
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), practitionerID, day)
	if err != nil {
		BuildErrorResponse(h.Logger, w, err)
		return
	}
	BuildSuccessResponse(w, http.StatusOK, "available slots fetched", slots)
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	request := new(bookAppointmentRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		BuildErrorResponse(h.Logger, w, domain.Validation("cannot parse request body", nil))
		return
	}
	if err := h.validate.Struct(request); err != nil {
		details := map[string]string{}
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				details[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		BuildErrorResponse(h.Logger, w, domain.Validation("missing required selections", details))
		return
	}

	instant, err := time.Parse(time.RFC3339, request.DateTime)
	if err != nil {
		BuildErrorResponse(h.Logger, w, domain.Validation("invalid dateTime", map[string]string{
			"dateTime": "expected RFC3339 timestamp",
		}))
		return
	}

	appointment, err := h.service.Book(r.Context(), AccountID(r.Context()), request.PractitionerID, request.SpecialtyID, instant)
	if err != nil {
		BuildErrorResponse(h.Logger, w, err)
		return
	}
	BuildSuccessResponse(w, http.StatusCreated, "appointment booked", appointment)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentId")
	appointment, err := h.service.Cancel(r.Context(), AccountID(r.Context()), appointmentID)
	if err != nil {
		BuildErrorResponse(h.Logger, w, err)
		return
	}
	BuildSuccessResponse(w, http.StatusOK, "appointment cancelled", appointment)
}

func (h *BookingHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.Upcoming(r.Context(), AccountID(r.Context()))
	if err != nil {
		BuildErrorResponse(h.Logger, w, err)
		return
	}
	BuildSuccessResponse(w, http.StatusOK, "upcoming appointments fetched", appointments)
}

func (h *BookingHandler) Past(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.Past(r.Context(), AccountID(r.Context()))
	if err != nil {
		BuildErrorResponse(h.Logger, w, err)
		return
	}
	BuildSuccessResponse(w, http.StatusOK, "past appointments fetched", appointments)
}
