package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kerjapoint/attendance-backend-go/internal/domain/audit"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/database"
)

type auditSink struct {
	db *database.DB
}

// NewAuditSink returns a Postgres-backed audit sink. Writes happen outside
// any caller transaction on purpose: audit is a best-effort side channel and
// must never roll back an attendance state change.
func NewAuditSink(db *database.DB) audit.Sink {
	return &auditSink{db: db}
}

// LogCheckout implements audit.Sink.
func (s *auditSink) LogCheckout(ctx context.Context, event audit.Event) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_events (
			id, kind, session_id, user_id, outlet_id, actor_id, metadata, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err = s.db.Exec(ctx, query,
		event.ID,
		event.Kind,
		event.SessionID,
		event.UserID,
		event.OutletID,
		event.ActorID,
		metadata,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}
