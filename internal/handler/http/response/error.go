package response

import (
	"errors"
	"net/http"

	"github.com/kerjapoint/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/outlet"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You already have an open attendance session")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Session has already been checked out")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		NotFound(w, "No open attendance session found")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		BadRequest(w, "You are outside the allowed radius", nil)

	// Outlet domain errors
	case errors.Is(err, outlet.ErrOutletNotFound):
		NotFound(w, "Outlet not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
