package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoSchedule is returned when an outlet has no configured operational
// start or end time. Callers must treat this as "no schedule, skip".
var ErrNoSchedule = errors.New("outlet has no configured operational hours")

// TimeOfDay is a bare wall-clock time with no date component, the form in
// which outlet operational hours are stored.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses "HH:MM", "HH:MM:SS" or a bare "HH" (minute treated
// as zero). Seconds, if present, are ignored.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || parts[0] == "" {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}

	minute := 0
	if len(parts) > 1 && parts[1] != "" {
		minute, err = strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
		}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// WindowConfig is the slice of outlet configuration the resolver needs.
// Start or End being nil means the outlet has no schedule at all; a present
// but malformed value has already been replaced by the resolver's fallback
// at parse time (see outlet.Outlet.WindowConfig).
type WindowConfig struct {
	Start    *TimeOfDay
	End      *TimeOfDay
	Location *time.Location
}

// Window is the concrete operational interval a reference instant falls
// within. Computed fresh per resolution, never persisted.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window (start inclusive,
// end exclusive).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Resolver computes operational windows. DefaultLocation is the system-wide
// timezone fallback for outlets without one; FallbackStart/FallbackEnd stand
// in for malformed (but present) time-of-day strings so a batch scan over
// partially-migrated data keeps moving.
type Resolver struct {
	DefaultLocation *time.Location
	FallbackStart   TimeOfDay
	FallbackEnd     TimeOfDay
}

func NewResolver(defaultLocation *time.Location) *Resolver {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &Resolver{
		DefaultLocation: defaultLocation,
		FallbackStart:   TimeOfDay{Hour: 9},
		FallbackEnd:     TimeOfDay{Hour: 18},
	}
}

// Resolve materializes the operational window the reference instant belongs
// to. Operational hours are stored as bare time-of-day, so both bounds are
// anchored to the reference's calendar date in the outlet timezone and then
// corrected for midnight rollover:
//
//  1. if end <= start (overnight shift, or degenerate equal times) the end
//     moves forward one day;
//  2. for such overnight windows only, a reference before the start belongs
//     to the early-morning tail of the window that started the previous
//     day, so both bounds move back one day. Same-day windows stay anchored
//     to the reference's calendar date regardless of the reference's hour.
//
// The returned window always satisfies End.After(Start). It is NOT guaranteed
// that the reference falls inside the window; callers that need containment
// must check Window.Contains explicitly.
func (r *Resolver) Resolve(cfg WindowConfig, reference time.Time) (Window, error) {
	if cfg.Start == nil || cfg.End == nil {
		return Window{}, ErrNoSchedule
	}

	loc := cfg.Location
	if loc == nil {
		loc = r.DefaultLocation
	}

	local := reference.In(loc)
	year, month, day := local.Date()

	start := time.Date(year, month, day, cfg.Start.Hour, cfg.Start.Minute, 0, 0, loc)
	end := time.Date(year, month, day, cfg.End.Hour, cfg.End.Minute, 0, 0, loc)

	rolledOver := false
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
		rolledOver = true
	}

	if rolledOver && local.Before(start) {
		start = start.Add(-24 * time.Hour)
		end = end.Add(-24 * time.Hour)
	}

	return Window{Start: start, End: end}, nil
}

// ParseOrFallback parses a stored time-of-day string, substituting the given
// fallback when the value is malformed. A nil input stays nil: the absence of
// a bound is the one fatal case and is Resolve's to report.
func ParseOrFallback(s *string, fallback TimeOfDay) *TimeOfDay {
	if s == nil {
		return nil
	}
	tod, err := ParseTimeOfDay(*s)
	if err != nil {
		tod = fallback
	}
	return &tod
}
