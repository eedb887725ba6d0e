package schedule

import "time"

// AttendanceStatus is the derived label for a finalized session.
type AttendanceStatus string

const (
	StatusOnTime        AttendanceStatus = "on_time"
	StatusLate          AttendanceStatus = "late"
	StatusEarlyCheckout AttendanceStatus = "early_checkout"
	StatusOvertime      AttendanceStatus = "overtime"
)

// Tolerances holds the per-outlet grace configuration, all in minutes and
// all non-negative.
type Tolerances struct {
	LateMinutes          int
	EarlyCheckoutMinutes int
	OvertimeThreshold    int
}

// Metrics is the tolerance-adjusted deviation set for a finalized
// check-in/check-out pair.
type Metrics struct {
	LateMinutes          int
	EarlyCheckoutMinutes int
	OvertimeMinutes      int
	WorkDurationMinutes  int
	Status               AttendanceStatus
}

// Classify scores a finalized session against its operational window.
// Each counter records the deviation beyond its tolerance, so a check-in
// inside the grace period scores zero late minutes.
func Classify(checkIn, checkOut time.Time, w Window, tol Tolerances) Metrics {
	var m Metrics

	if late := wholeMinutes(checkIn.Sub(w.Start)) - tol.LateMinutes; late > 0 {
		m.LateMinutes = late
	}

	if early := wholeMinutes(w.End.Sub(checkOut)) - tol.EarlyCheckoutMinutes; early > 0 {
		m.EarlyCheckoutMinutes = early
	}

	if overtime := wholeMinutes(checkOut.Sub(w.End)) - tol.OvertimeThreshold; overtime > 0 {
		m.OvertimeMinutes = overtime
	}

	if d := wholeMinutes(checkOut.Sub(checkIn)); d > 0 {
		m.WorkDurationMinutes = d
	}

	// Precedence is fixed so the label is deterministic: lateness wins,
	// then early checkout, then overtime.
	switch {
	case m.LateMinutes > 0:
		m.Status = StatusLate
	case m.EarlyCheckoutMinutes > 0:
		m.Status = StatusEarlyCheckout
	case m.OvertimeMinutes > 0:
		m.Status = StatusOvertime
	default:
		m.Status = StatusOnTime
	}

	return m
}

func wholeMinutes(d time.Duration) int {
	return int(d.Minutes())
}
