package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/database"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	id, user_id, outlet_id, company_id,
	check_in_time, check_out_time, status,
	check_in_latitude, check_in_longitude, check_in_accuracy,
	check_in_selfie_path, check_in_selfie_thumb, check_in_selfie_size, check_in_selfie_present,
	check_out_latitude, check_out_longitude, check_out_accuracy,
	check_out_selfie_path, check_out_selfie_thumb, check_out_selfie_size, check_out_selfie_present,
	late_minutes, early_checkout_minutes, overtime_minutes, work_duration_minutes,
	is_overtime, attendance_status, note,
	created_at, updated_at`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.OutletID, &s.CompanyID,
		&s.CheckInTime, &s.CheckOutTime, &s.Status,
		&s.CheckInLatitude, &s.CheckInLongitude, &s.CheckInAccuracy,
		&s.CheckInSelfiePath, &s.CheckInSelfieThumb, &s.CheckInSelfieSize, &s.CheckInSelfiePresent,
		&s.CheckOutLatitude, &s.CheckOutLongitude, &s.CheckOutAccuracy,
		&s.CheckOutSelfiePath, &s.CheckOutSelfieThumb, &s.CheckOutSelfieSize, &s.CheckOutSelfiePresent,
		&s.LateMinutes, &s.EarlyCheckoutMinutes, &s.OvertimeMinutes, &s.WorkDurationMinutes,
		&s.IsOvertime, &s.AttendanceStatus, &s.Note,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			user_id, outlet_id, company_id,
			check_in_time, status,
			check_in_latitude, check_in_longitude, check_in_accuracy,
			check_in_selfie_path, check_in_selfie_thumb, check_in_selfie_size, check_in_selfie_present,
			late_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.UserID,
		session.OutletID,
		session.CompanyID,
		session.CheckInTime,
		session.Status,
		session.CheckInLatitude,
		session.CheckInLongitude,
		session.CheckInAccuracy,
		session.CheckInSelfiePath,
		session.CheckInSelfieThumb,
		session.CheckInSelfieSize,
		session.CheckInSelfiePresent,
		session.LateMinutes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return session, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session: %w", err)
	}

	return s, nil
}

// GetOpenByUser implements attendance.SessionRepository.
func (r *sessionRepository) GetOpenByUser(ctx context.Context, userID string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND check_out_time IS NULL
		ORDER BY check_in_time DESC
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return s, nil
}

// ListOpen implements attendance.SessionRepository.
func (r *sessionRepository) ListOpen(ctx context.Context) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE check_in_time IS NOT NULL
		  AND check_out_time IS NULL
		ORDER BY check_in_time ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open sessions: %w", err)
	}

	return sessions, nil
}

// Update implements attendance.SessionRepository.
func (r *sessionRepository) Update(ctx context.Context, session attendance.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions SET
			check_out_time = $2,
			status = $3,
			check_out_latitude = $4,
			check_out_longitude = $5,
			check_out_accuracy = $6,
			check_out_selfie_path = $7,
			check_out_selfie_thumb = $8,
			check_out_selfie_size = $9,
			check_out_selfie_present = $10,
			late_minutes = $11,
			early_checkout_minutes = $12,
			overtime_minutes = $13,
			work_duration_minutes = $14,
			is_overtime = $15,
			attendance_status = $16,
			note = $17,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		session.ID,
		session.CheckOutTime,
		session.Status,
		session.CheckOutLatitude,
		session.CheckOutLongitude,
		session.CheckOutAccuracy,
		session.CheckOutSelfiePath,
		session.CheckOutSelfieThumb,
		session.CheckOutSelfieSize,
		session.CheckOutSelfiePresent,
		session.LateMinutes,
		session.EarlyCheckoutMinutes,
		session.OvertimeMinutes,
		session.WorkDurationMinutes,
		session.IsOvertime,
		session.AttendanceStatus,
		session.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrSessionNotFound
	}

	return nil
}

// CloseAutomatically implements attendance.SessionRepository. The update
// runs in its own transaction and guards on check_out_time still being null,
// so a session closed between the scan and this call is left untouched.
func (r *sessionRepository) CloseAutomatically(ctx context.Context, fc attendance.ForceClose) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE attendance_sessions SET
				check_out_time = $2,
				status = $3,
				check_out_latitude = NULL,
				check_out_longitude = NULL,
				check_out_accuracy = NULL,
				check_out_selfie_path = NULL,
				check_out_selfie_thumb = NULL,
				check_out_selfie_size = NULL,
				check_out_selfie_present = FALSE,
				late_minutes = $4,
				early_checkout_minutes = $5,
				overtime_minutes = 0,
				work_duration_minutes = $6,
				is_overtime = FALSE,
				attendance_status = $7,
				note = $8,
				updated_at = NOW()
			WHERE id = $1
			  AND check_out_time IS NULL
		`

		tag, err := tx.Exec(ctx, query,
			fc.SessionID,
			fc.CheckOutTime,
			attendance.StatusCheckedOut,
			fc.Metrics.LateMinutes,
			fc.Metrics.EarlyCheckoutMinutes,
			fc.Metrics.WorkDurationMinutes,
			string(fc.Metrics.Status),
			fc.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to auto-close session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return attendance.ErrAlreadyCheckedOut
		}

		return nil
	})
}
