package errors

import (
	"fmt"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Failure kinds returned by the services. Handlers map them to status codes
// with errors.As; services wrap them with fmt.Errorf("...: %w", err) when
// adding context.
var (
	ErrZoneNotFound        = NewHTTPError(http.StatusNotFound, "zone not found")
	ErrZoneInactive        = NewHTTPError(http.StatusConflict, "zone is inactive")
	ErrVehicleNotOwned     = NewHTTPError(http.StatusNotFound, "vehicle not found")
	ErrInvalidInterval     = NewHTTPError(http.StatusBadRequest, "end_time must be after start_time")
	ErrReservationNotFound = NewHTTPError(http.StatusNotFound, "reservation not found")
	ErrReservationExpired  = NewHTTPError(http.StatusConflict, "reservation has expired")
	ErrAlreadyTerminal     = NewHTTPError(http.StatusConflict, "reservation is already cancelled or expired")
	ErrVehicleInUse        = NewHTTPError(http.StatusConflict, "vehicle has a pending or active reservation")
	ErrInvalidCredentials  = NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	ErrEmailTaken          = NewHTTPError(http.StatusConflict, "email already registered")
	ErrUnauthorized        = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = NewHTTPError(http.StatusForbidden, "forbidden")
)

// CapacityError is the contention outcome of admission control. It carries
// the free-spot count observed at decision time so the caller can suggest
// alternatives.
type CapacityError struct {
	FreeSpots int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("no capacity: %d free spots", e.FreeSpots)
}

func NoCapacity(freeSpots int) *CapacityError {
	if freeSpots < 0 {
		freeSpots = 0
	}
	return &CapacityError{FreeSpots: freeSpots}
}
