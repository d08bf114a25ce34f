package handler

import (
	"errors"
	"net/http"

	"github.com/voicegenapp/api-voicegen/internal/repository"
	"github.com/voicegenapp/api-voicegen/internal/service"
)

// statusFor maps domain failures to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrNoAccount):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrIdentityConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidAdKind):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRemoteRequired), errors.Is(err, repository.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
