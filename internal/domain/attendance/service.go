package attendance

import "context"

// AttendanceService defines the interactive attendance operations.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (SessionResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (SessionResponse, error)
	GetOpenSession(ctx context.Context, userID string) (SessionResponse, error)
	ListOpenSessions(ctx context.Context) ([]SessionResponse, error)
}
