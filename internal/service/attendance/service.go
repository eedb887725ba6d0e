package attendance

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
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	sessionRepo attendance.SessionRepository
	outletRepo  outlet.OutletRepository
	resolver    *schedule.Resolver
	clock       clock.Clock
	auditSink   audit.Sink
}

func NewAttendanceService(
	sessionRepo attendance.SessionRepository,
	outletRepo outlet.OutletRepository,
	resolver *schedule.Resolver,
	clk clock.Clock,
	auditSink audit.Sink,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		sessionRepo: sessionRepo,
		outletRepo:  outletRepo,
		resolver:    resolver,
		clock:       clk,
		auditSink:   auditSink,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	out, err := a.outletRepo.GetByID(ctx, req.OutletID)
	if err != nil {
		if errors.Is(err, outlet.ErrOutletNotFound) {
			return attendance.SessionResponse{}, outlet.ErrOutletNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get outlet: %w", err)
	}

	if out.RadiusMeters > 0 {
		distance := utils.CalculateHaversineDistance(
			req.Latitude, req.Longitude,
			out.Latitude, out.Longitude,
		)
		if distance > float64(out.RadiusMeters) {
			return attendance.SessionResponse{}, attendance.ErrOutsideAllowedRadius
		}
	}

	// One open session per user at a time.
	_, err = a.sessionRepo.GetOpenByUser(ctx, req.UserID)
	if err == nil {
		return attendance.SessionResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrSessionNotFound) {
		return attendance.SessionResponse{}, fmt.Errorf("failed to check for open session: %w", err)
	}

	nowUTC := a.clock.Now().UTC()

	// Late minutes at entry, when the outlet has a schedule. A missing
	// schedule does not block check-in; the metric just stays unset.
	var lateMinutes *int
	if window, werr := a.resolver.Resolve(out.WindowConfig(a.resolver), nowUTC); werr == nil {
		tol := out.Tolerances()
		if late := int(nowUTC.Sub(window.Start).Minutes()) - tol.LateMinutes; late > 0 {
			lateMinutes = &late
		} else {
			zero := 0
			lateMinutes = &zero
		}
	}

	session := attendance.Session{
		UserID:    req.UserID,
		OutletID:  req.OutletID,
		CompanyID: out.CompanyID,

		CheckInTime: nowUTC,
		Status:      attendance.StatusOpen,

		CheckInLatitude:      &req.Latitude,
		CheckInLongitude:     &req.Longitude,
		CheckInAccuracy:      req.Accuracy,
		CheckInSelfiePath:    req.SelfiePath,
		CheckInSelfieThumb:   req.SelfieThumbPath,
		CheckInSelfieSize:    req.SelfieFileSize,
		CheckInSelfiePresent: req.SelfiePath != nil,

		LateMinutes: lateMinutes,
	}

	created, err := a.sessionRepo.Create(ctx, session)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	a.emitAudit(ctx, audit.KindCheckIn, created, nowUTC)

	return mapSessionToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := a.sessionRepo.GetOpenByUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	out, err := a.outletRepo.GetByID(ctx, session.OutletID)
	if err != nil {
		if errors.Is(err, outlet.ErrOutletNotFound) {
			return attendance.SessionResponse{}, outlet.ErrOutletNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get outlet: %w", err)
	}

	nowUTC := a.clock.Now().UTC()

	session.CheckOutTime = &nowUTC
	session.Status = attendance.StatusCheckedOut
	session.CheckOutLatitude = &req.Latitude
	session.CheckOutLongitude = &req.Longitude
	session.CheckOutAccuracy = req.Accuracy
	session.CheckOutSelfiePath = req.SelfiePath
	session.CheckOutSelfieThumb = req.SelfieThumbPath
	session.CheckOutSelfieSize = req.SelfieFileSize
	session.CheckOutSelfiePresent = req.SelfiePath != nil

	// Score the finalized pair against the operational window. Sessions at
	// outlets without a schedule still close, just without deviation metrics.
	if window, werr := a.resolver.Resolve(out.WindowConfig(a.resolver), session.CheckInTime); werr == nil {
		applyMetrics(&session, schedule.Classify(session.CheckInTime, nowUTC, window, out.Tolerances()))
	} else {
		duration := int(nowUTC.Sub(session.CheckInTime).Minutes())
		if duration < 0 {
			duration = 0
		}
		session.WorkDurationMinutes = &duration
	}

	if err := a.sessionRepo.Update(ctx, session); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to update attendance session: %w", err)
	}

	a.emitAudit(ctx, audit.KindCheckOut, session, nowUTC)

	return mapSessionToResponse(session), nil
}

// GetOpenSession implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetOpenSession(ctx context.Context, userID string) (attendance.SessionResponse, error) {
	session, err := a.sessionRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	return mapSessionToResponse(session), nil
}

// ListOpenSessions implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListOpenSessions(ctx context.Context) ([]attendance.SessionResponse, error) {
	sessions, err := a.sessionRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}

	responses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, mapSessionToResponse(s))
	}
	return responses, nil
}

func (a *AttendanceServiceImpl) emitAudit(ctx context.Context, kind string, session attendance.Session, at time.Time) {
	if a.auditSink == nil {
		return
	}

	actorID := session.UserID
	err := a.auditSink.LogCheckout(ctx, audit.Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		SessionID: session.ID,
		UserID:    session.UserID,
		OutletID:  session.OutletID,
		ActorID:   &actorID,
		Metadata: map[string]interface{}{
			"at": at.Format(time.RFC3339),
		},
		CreatedAt: at,
	})
	if err != nil {
		slog.Warn("Attendance: failed to emit audit event",
			"session_id", session.ID,
			"kind", kind,
			"error", err)
	}
}

func applyMetrics(session *attendance.Session, m schedule.Metrics) {
	late := m.LateMinutes
	early := m.EarlyCheckoutMinutes
	overtime := m.OvertimeMinutes
	duration := m.WorkDurationMinutes
	status := string(m.Status)

	session.LateMinutes = &late
	session.EarlyCheckoutMinutes = &early
	session.OvertimeMinutes = &overtime
	session.WorkDurationMinutes = &duration
	session.IsOvertime = m.OvertimeMinutes > 0
	session.AttendanceStatus = &status
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func mapSessionToResponse(s attendance.Session) attendance.SessionResponse {
	return attendance.SessionResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		UserName:   s.UserName,
		OutletID:   s.OutletID,
		OutletName: s.OutletName,

		CheckInTime:  s.CheckInTime.Format("2006-01-02 15:04:05"),
		CheckOutTime: timePtrToString(s.CheckOutTime),
		Status:       s.Status,

		LateMinutes:          s.LateMinutes,
		EarlyCheckoutMinutes: s.EarlyCheckoutMinutes,
		OvertimeMinutes:      s.OvertimeMinutes,
		WorkDurationMinutes:  s.WorkDurationMinutes,
		IsOvertime:           s.IsOvertime,
		AttendanceStatus:     s.AttendanceStatus,

		Note: s.Note,
	}
}
