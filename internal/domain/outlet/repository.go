package outlet

import "context"

// OutletRepository defines read access to outlet records. The attendance
// core only ever reads outlets; they are owned and mutated elsewhere.
type OutletRepository interface {
	// GetByID retrieves an outlet by ID.
	GetByID(ctx context.Context, id string) (*Outlet, error)

	// ListByCompany retrieves all outlets for a company.
	ListByCompany(ctx context.Context, companyID string) ([]Outlet, error)
}
