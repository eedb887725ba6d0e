package attendance

import (
	"context"
	"time"

	"github.com/kerjapoint/attendance-backend-go/internal/domain/schedule"
)

// ForceClose carries the state transition the auto-checkout job applies to
// a single open session. The checkout side is left empty on purpose: no
// physical checkout happened, so no capture fields are written.
type ForceClose struct {
	SessionID    string
	CheckOutTime time.Time
	Note         string
	Metrics      schedule.Metrics
}

// SessionRepository defines data access for attendance sessions.
type SessionRepository interface {
	// Create creates a new session from a check-in.
	Create(ctx context.Context, session Session) (Session, error)

	// GetByID retrieves a session by ID.
	GetByID(ctx context.Context, id string) (Session, error)

	// GetOpenByUser retrieves the user's open session, if any.
	// Used both for the double-check-in guard and for interactive checkout.
	GetOpenByUser(ctx context.Context, userID string) (Session, error)

	// ListOpen retrieves every session with a check-in and no checkout.
	// This is the auto-checkout scan; closed sessions never reappear here.
	ListOpen(ctx context.Context) ([]Session, error)

	// Update persists a finalized interactive checkout.
	Update(ctx context.Context, session Session) error

	// CloseAutomatically applies a ForceClose inside its own transaction.
	// It must only touch sessions that are still open; returns
	// ErrAlreadyCheckedOut if the session was closed in the meantime.
	CloseAutomatically(ctx context.Context, fc ForceClose) error
}
