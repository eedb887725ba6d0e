package outlet

import (
	"time"

	"github.com/kerjapoint/attendance-backend-go/internal/domain/schedule"
)

// DefaultOvertimeThresholdMinutes is the grace past window end before
// auto-checkout fires, used when an outlet has no explicit value.
const DefaultOvertimeThresholdMinutes = 60

type Outlet struct {
	ID        string
	CompanyID string
	Name      string

	// Operational hours, stored as bare "HH:MM" time-of-day strings.
	// Nil means unconfigured; resolution is impossible without both.
	OperationalStartTime *string
	OperationalEndTime   *string

	// IANA timezone identifier. Nil falls back to the system default.
	Timezone *string

	OvertimeThresholdMinutes *int
	LateToleranceMinutes     int
	EarlyCheckoutTolerance   int

	// Geofence for interactive check-in/check-out.
	Latitude     float64
	Longitude    float64
	RadiusMeters int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the outlet timezone, falling back to the given default
// when absent or unknown.
func (o *Outlet) Location(fallback *time.Location) *time.Location {
	if o.Timezone == nil {
		return fallback
	}
	loc, err := time.LoadLocation(*o.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// WindowConfig adapts the outlet's stored schedule fields into the
// resolver's input, applying the resolver's leniency for malformed values.
func (o *Outlet) WindowConfig(r *schedule.Resolver) schedule.WindowConfig {
	return schedule.WindowConfig{
		Start:    schedule.ParseOrFallback(o.OperationalStartTime, r.FallbackStart),
		End:      schedule.ParseOrFallback(o.OperationalEndTime, r.FallbackEnd),
		Location: o.Location(r.DefaultLocation),
	}
}

// OvertimeThreshold returns the configured grace past window end, or the
// system default when unset or negative.
func (o *Outlet) OvertimeThreshold() time.Duration {
	minutes := DefaultOvertimeThresholdMinutes
	if o.OvertimeThresholdMinutes != nil && *o.OvertimeThresholdMinutes >= 0 {
		minutes = *o.OvertimeThresholdMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Tolerances bundles the outlet's grace configuration for classification.
func (o *Outlet) Tolerances() schedule.Tolerances {
	return schedule.Tolerances{
		LateMinutes:          o.LateToleranceMinutes,
		EarlyCheckoutMinutes: o.EarlyCheckoutTolerance,
		OvertimeThreshold:    int(o.OvertimeThreshold() / time.Minute),
	}
}
