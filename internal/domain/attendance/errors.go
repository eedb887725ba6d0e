package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn     = errors.New("you already have an open attendance session")
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius")

	// Checkout errors
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("this session has already been checked out")

	// General errors
	ErrSessionNotFound = errors.New("attendance session not found")
)
