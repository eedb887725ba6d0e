package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/outlet"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/database"
)

type outletRepository struct {
	db *database.DB
}

func NewOutletRepository(db *database.DB) outlet.OutletRepository {
	return &outletRepository{db: db}
}

const outletColumns = `
	id, company_id, name,
	operational_start_time, operational_end_time, timezone,
	overtime_threshold_minutes, late_tolerance_minutes, early_checkout_tolerance,
	latitude, longitude, radius_meters,
	created_at, updated_at`

func scanOutlet(row pgx.Row) (outlet.Outlet, error) {
	var o outlet.Outlet
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.Name,
		&o.OperationalStartTime, &o.OperationalEndTime, &o.Timezone,
		&o.OvertimeThresholdMinutes, &o.LateToleranceMinutes, &o.EarlyCheckoutTolerance,
		&o.Latitude, &o.Longitude, &o.RadiusMeters,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// GetByID implements outlet.OutletRepository.
func (r *outletRepository) GetByID(ctx context.Context, id string) (*outlet.Outlet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + outletColumns + ` FROM outlets WHERE id = $1 AND deleted_at IS NULL`

	o, err := scanOutlet(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, outlet.ErrOutletNotFound
		}
		return nil, fmt.Errorf("failed to get outlet: %w", err)
	}

	return &o, nil
}

// ListByCompany implements outlet.OutletRepository.
func (r *outletRepository) ListByCompany(ctx context.Context, companyID string) ([]outlet.Outlet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + outletColumns + ` FROM outlets WHERE company_id = $1 AND deleted_at IS NULL ORDER BY name`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}
	defer rows.Close()

	var outlets []outlet.Outlet
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outlet: %w", err)
		}
		outlets = append(outlets, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outlets: %w", err)
	}

	return outlets, nil
}
