package attendance

import (
	"time"
)

// Session statuses. A session is "open" iff CheckOutTime is nil; Status
// mirrors that for querying and reporting.
const (
	StatusOpen       = "open"
	StatusCheckedOut = "checked_out"
)

// AutoCloseRemark is the fixed system note recorded on sessions closed by
// the auto-checkout job. The checkout side carries no capture data in that
// case, so the remark is the only trace of how the session ended.
const AutoCloseRemark = "Automatically checked out at operational close; no physical checkout occurred. Contact your manager if this is incorrect."

type Session struct {
	ID        string
	UserID    string
	OutletID  string
	CompanyID string

	CheckInTime  time.Time
	CheckOutTime *time.Time
	Status       string

	// Check-in capture.
	CheckInLatitude      *float64
	CheckInLongitude     *float64
	CheckInAccuracy      *float64
	CheckInSelfiePath    *string
	CheckInSelfieThumb   *string
	CheckInSelfieSize    *int64
	CheckInSelfiePresent bool

	// Checkout capture. All nil/false when the session was auto-closed.
	CheckOutLatitude      *float64
	CheckOutLongitude     *float64
	CheckOutAccuracy      *float64
	CheckOutSelfiePath    *string
	CheckOutSelfieThumb   *string
	CheckOutSelfieSize    *int64
	CheckOutSelfiePresent bool

	// Derived metrics, finalized at checkout.
	LateMinutes          *int
	EarlyCheckoutMinutes *int
	OvertimeMinutes      *int
	WorkDurationMinutes  *int
	IsOvertime           bool
	AttendanceStatus     *string

	Note *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName   *string
	OutletName *string
}

func (s *Session) IsOpen() bool {
	return s.CheckOutTime == nil
}
