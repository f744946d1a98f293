package handler

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"github.com/sirupsen/logrus"
)

type responseBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errorBody struct {
	Success bool              `json:"success"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(responseBody{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// BuildErrorResponse maps typed application errors to their HTTP status.
// Anything untyped is treated as an internal failure and not leaked to the
// client.
func BuildErrorResponse(logger *logrus.Logger, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{
		Success: false,
		Code:    "INTERNAL_ERROR",
		Message: "something went wrong",
	}

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus
		body.Code = appErr.Code
		body.Message = appErr.Message
		body.Details = appErr.Details
	} else {
		logger.WithError(err).Error("Unhandled error reached the transport layer")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
