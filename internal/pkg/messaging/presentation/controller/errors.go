package controller

import (
	"errors"
	"net/http"

	messaging "jobhive/internal/pkg/messaging/application/domain"
	"jobhive/internal/pkg/messaging/application/usecase"
)

// statusForError maps the error taxonomy onto HTTP statuses: persistence
// failures are 500, missing users/profiles 404, everything else is a caller
// mistake (400). The error text itself is the user-visible copy.
func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, messaging.ErrUserNotFound), errors.Is(err, messaging.ErrNoProfile):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
