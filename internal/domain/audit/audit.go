package audit

import (
	"context"
	"time"
)

// Event kinds recorded for attendance state transitions.
const (
	KindCheckIn      = "attendance.check_in"
	KindCheckOut     = "attendance.check_out"
	KindAutoCheckOut = "attendance.auto_check_out"
)

type Event struct {
	ID        string
	Kind      string
	SessionID string
	UserID    string
	OutletID  string

	// ActorID is nil for system-initiated transitions.
	ActorID *string

	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// Sink records attendance audit events. Emission is best-effort: callers
// log a returned error as a warning and move on, they never roll back the
// state change the event describes.
type Sink interface {
	LogCheckout(ctx context.Context, event Event) error
}
