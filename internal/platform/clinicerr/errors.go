// Package clinicerr defines the error taxonomy shared by all domain
// services. Handlers translate these sentinels into HTTP responses;
// repositories and services return them wrapped with context via
// fmt.Errorf and %w.
package clinicerr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation indicates missing required fields, an unresolved
	// foreign key, or otherwise malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrIdentifierMismatch indicates the identifier in an update payload
	// disagrees with the identifier being targeted.
	ErrIdentifierMismatch = errors.New("identifier mismatch")

	// ErrConflict indicates a write targeted a stale version of a record.
	// The caller must re-fetch and retry.
	ErrConflict = errors.New("concurrent modification detected")

	// ErrDeliveryFailed indicates a notification provider rejected a send.
	// It is logged at the dispatcher boundary and never propagated to the
	// operation that triggered the notification.
	ErrDeliveryFailed = errors.New("notification delivery failed")
)

// HTTPStatus maps a taxonomy error to the status code handlers should
// respond with. Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrIdentifierMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
