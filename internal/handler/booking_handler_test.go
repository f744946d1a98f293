package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"
	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type stubBookingService struct {
	bookErr    error
	cancelErr  error
	slots      []domain.Slot
	booked     domain.Appointment
	lastBookBy string
}

func (s *stubBookingService) AvailableSlots(ctx context.Context, practitionerID string, day time.Time) ([]domain.Slot, error) {
	return s.slots, nil
}

func (s *stubBookingService) Book(ctx context.Context, accountID, practitionerID, specialtyID string, instant time.Time) (domain.Appointment, error) {
	s.lastBookBy = accountID
	if s.bookErr != nil {
		return domain.Appointment{}, s.bookErr
	}
	return s.booked, nil
}

func (s *stubBookingService) Cancel(ctx context.Context, accountID, appointmentID string) (domain.Appointment, error) {
	if s.cancelErr != nil {
		return domain.Appointment{}, s.cancelErr
	}
	return domain.Appointment{ID: appointmentID, AccountID: accountID, Status: domain.StatusCancelled}, nil
}

func (s *stubBookingService) Upcoming(ctx context.Context, accountID string) ([]domain.Appointment, error) {
	return []domain.Appointment{}, nil
}

func (s *stubBookingService) Past(ctx context.Context, accountID string) ([]domain.Appointment, error) {
	return []domain.Appointment{}, nil
}

func (s *stubBookingService) CompleteElapsed(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestRouter(svc *stubBookingService) *chi.Mux {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	bookingHandler := NewBookingHandler(svc, logger)

	router := chi.NewRouter()
	router.Get("/practitioners/{practitionerId}/slots", bookingHandler.AvailableSlots)
	router.Group(func(r chi.Router) {
		r.Use(Authenticate(testSecret, logger))
		r.Post("/appointments", bookingHandler.Book)
		r.Delete("/appointments/{appointmentId}", bookingHandler.Cancel)
		r.Get("/appointments/upcoming", bookingHandler.Upcoming)
	})
	return router
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func TestBookEndpoint(t *testing.T) {
	body := `{"practitionerId":"1","specialtyId":"1","dateTime":"2030-01-01T09:00:00Z"}`

	t.Run("Requires Token", func(t *testing.T) {
		router := newTestRouter(&stubBookingService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Rejects Forged Token", func(t *testing.T) {
		router := newTestRouter(&stubBookingService{})
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "A1"})
		forged, err := token.SignedString([]byte("wrong-secret"))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+forged)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Books With Session Identity", func(t *testing.T) {
		svc := &stubBookingService{booked: domain.Appointment{ID: "ap1", AccountID: "A1", Status: domain.StatusScheduled}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "A1"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "A1", svc.lastBookBy, "account id comes from the token, not the body")

		var response struct {
			Success bool               `json:"success"`
			Data    domain.Appointment `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "ap1", response.Data.ID)
	})

	t.Run("Maps Conflict To 409", func(t *testing.T) {
		svc := &stubBookingService{bookErr: domain.Conflict("slot is no longer available")}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "A1"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var response struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "CONFLICT", response.Code)
	})

	t.Run("Maps Dependency Failure To 503", func(t *testing.T) {
		svc := &stubBookingService{bookErr: domain.Dependency(errors.New("connection refused"))}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "A1"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var response struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "DEPENDENCY_ERROR", response.Code)
		assert.NotContains(t, response.Message, "connection refused", "internal detail not leaked")
	})

	t.Run("Rejects Malformed Body", func(t *testing.T) {
		router := newTestRouter(&stubBookingService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{"practitionerId":"1"}`))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "A1"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejects Bad Timestamp", func(t *testing.T) {
		router := newTestRouter(&stubBookingService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{"practitionerId":"1","specialtyId":"1","dateTime":"tomorrow"}`))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "A1"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCancelEndpoint(t *testing.T) {
	t.Run("Maps Invalid State To 422", func(t *testing.T) {
		svc := &stubBookingService{cancelErr: domain.InvalidState("only scheduled appointments can be cancelled")}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/appointments/ap1", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "A1"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Success", func(t *testing.T) {
		router := newTestRouter(&stubBookingService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/appointments/ap1", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "A1"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAvailableSlotsEndpoint(t *testing.T) {
	t.Run("Rejects Bad Date", func(t *testing.T) {
		router := newTestRouter(&stubBookingService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/practitioners/1/slots?date=01-01-2030", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Returns Slots", func(t *testing.T) {
		instant := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
		svc := &stubBookingService{slots: []domain.Slot{{PractitionerID: "1", Instant: instant, IsAvailable: true}}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/practitioners/1/slots?date=2030-01-01", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response struct {
			Data []domain.Slot `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.True(t, response.Data[0].IsAvailable)
	})
}
