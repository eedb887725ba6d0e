package autocheckout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/audit"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/outlet"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/schedule"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/clock"
)

// Result is the aggregate outcome of one batch run.
type Result struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Runner scans open attendance sessions and force-closes the ones whose
// operational window ended more than the outlet's overtime threshold ago.
//
// Runner is not safe for concurrent invocation with itself; the caller
// (cron job or ops endpoint) must serialize runs.
type Runner struct {
	sessionRepo attendance.SessionRepository
	outletRepo  outlet.OutletRepository
	resolver    *schedule.Resolver
	clock       clock.Clock
	auditSink   audit.Sink
}

func NewRunner(
	sessionRepo attendance.SessionRepository,
	outletRepo outlet.OutletRepository,
	resolver *schedule.Resolver,
	clk clock.Clock,
	auditSink audit.Sink,
) *Runner {
	return &Runner{
		sessionRepo: sessionRepo,
		outletRepo:  outletRepo,
		resolver:    resolver,
		clock:       clk,
		auditSink:   auditSink,
	}
}

// Run executes one batch pass. With dryRun set it performs the identical
// read and window math but logs intended transitions instead of writing.
//
// The scan only sees sessions with a null checkout, so re-running after a
// successful pass yields processed=0: a session is closed exactly once.
// Failures are isolated per session; the batch never aborts midway.
func (r *Runner) Run(ctx context.Context, dryRun bool) (Result, error) {
	var result Result

	sessions, err := r.sessionRepo.ListOpen(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list open sessions: %w", err)
	}

	outlets := make(map[string]*outlet.Outlet)

	for _, session := range sessions {
		out, ok := outlets[session.OutletID]
		if !ok {
			out, err = r.outletRepo.GetByID(ctx, session.OutletID)
			if err != nil {
				if !errors.Is(err, outlet.ErrOutletNotFound) {
					slog.Error("Auto-checkout: failed to load outlet",
						"session_id", session.ID,
						"outlet_id", session.OutletID,
						"error", err)
				}
				out = nil
			}
			outlets[session.OutletID] = out
		}

		if out == nil || out.OperationalEndTime == nil {
			result.Skipped++
			continue
		}

		cfg := out.WindowConfig(r.resolver)
		window, err := r.resolver.Resolve(cfg, session.CheckInTime)
		if err != nil {
			result.Skipped++
			continue
		}

		if session.CheckInTime.Before(window.Start.Add(-24*time.Hour)) ||
			session.CheckInTime.After(window.End.Add(24*time.Hour)) {
			slog.Warn("Auto-checkout: check-in far outside resolved window",
				"session_id", session.ID,
				"check_in", session.CheckInTime,
				"window_start", window.Start,
				"window_end", window.End)
		}

		trigger := window.End.Add(out.OvertimeThreshold())
		nowLocal := r.clock.Now().In(cfg.Location)

		if nowLocal.Before(trigger) {
			result.Skipped++
			continue
		}

		// The contractual checkout time is the operational close, not the
		// moment this batch happened to run. Stored in UTC like every other
		// timestamp.
		checkOutAt := window.End.UTC()

		metrics := schedule.Classify(session.CheckInTime, window.End, window, out.Tolerances())
		// Auto-closure never counts as employee-worked overtime.
		metrics.OvertimeMinutes = 0
		if metrics.Status == schedule.StatusOvertime {
			metrics.Status = schedule.StatusOnTime
		}

		if dryRun {
			slog.Info("Auto-checkout (dry run): would close session",
				"session_id", session.ID,
				"user_id", session.UserID,
				"outlet_id", session.OutletID,
				"check_out_time", checkOutAt,
				"window_end", window.End,
				"status", metrics.Status)
			result.Processed++
			continue
		}

		err = r.sessionRepo.CloseAutomatically(ctx, attendance.ForceClose{
			SessionID:    session.ID,
			CheckOutTime: checkOutAt,
			Note:         attendance.AutoCloseRemark,
			Metrics:      metrics,
		})
		if err != nil {
			slog.Error("Auto-checkout: failed to close session",
				"session_id", session.ID,
				"user_id", session.UserID,
				"error", err)
			result.Skipped++
			continue
		}

		r.emitAudit(ctx, session, checkOutAt, window)

		slog.Info("Auto-checkout: closed session",
			"session_id", session.ID,
			"user_id", session.UserID,
			"outlet_id", session.OutletID,
			"check_out_time", checkOutAt)
		result.Processed++
	}

	slog.Info("Auto-checkout run finished",
		"dry_run", dryRun,
		"processed", result.Processed,
		"skipped", result.Skipped)

	return result, nil
}

// emitAudit is best-effort: a failed emission is logged and never rolls
// back the state change it describes.
func (r *Runner) emitAudit(ctx context.Context, session attendance.Session, checkOutAt time.Time, window schedule.Window) {
	if r.auditSink == nil {
		return
	}

	err := r.auditSink.LogCheckout(ctx, audit.Event{
		ID:        uuid.NewString(),
		Kind:      audit.KindAutoCheckOut,
		SessionID: session.ID,
		UserID:    session.UserID,
		OutletID:  session.OutletID,
		ActorID:   nil,
		Metadata: map[string]interface{}{
			"check_out_time": checkOutAt.Format(time.RFC3339),
			"window_start":   window.Start.Format(time.RFC3339),
			"window_end":     window.End.Format(time.RFC3339),
			"note":           attendance.AutoCloseRemark,
		},
		CreatedAt: r.clock.Now().UTC(),
	})
	if err != nil {
		slog.Warn("Auto-checkout: failed to emit audit event",
			"session_id", session.ID,
			"error", err)
	}
}
