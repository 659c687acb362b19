package domain

import (
	"time"

	"github.com/m04kA/DMP-BookingService/pkg/types"
)

// DayHours is the working-hours rule for a single weekday.
// Both boundaries are wall-clock times in the canonical zone; Start < End.
type DayHours struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// IsComplete returns true if both boundaries are set
func (d *DayHours) IsComplete() bool {
	return d != nil && !d.Start.IsZero() && !d.End.IsZero()
}

// WorkingHours is a designer's recurring weekly schedule.
// A nil day means the designer is unavailable on that weekday.
type WorkingHours struct {
	Monday    *DayHours `json:"mon,omitempty"`
	Tuesday   *DayHours `json:"tue,omitempty"`
	Wednesday *DayHours `json:"wed,omitempty"`
	Thursday  *DayHours `json:"thu,omitempty"`
	Friday    *DayHours `json:"fri,omitempty"`
	Saturday  *DayHours `json:"sat,omitempty"`
	Sunday    *DayHours `json:"sun,omitempty"`
}

// ForWeekday returns the rule for the given weekday, nil if the day is off
func (w *WorkingHours) ForWeekday(weekday time.Weekday) *DayHours {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return nil
	}
}

// Merge applies a partial update: days present in patch replace the
// corresponding days of the receiver, days absent in patch are kept.
func (w WorkingHours) Merge(patch WorkingHours) WorkingHours {
	merged := w
	if patch.Monday != nil {
		merged.Monday = patch.Monday
	}
	if patch.Tuesday != nil {
		merged.Tuesday = patch.Tuesday
	}
	if patch.Wednesday != nil {
		merged.Wednesday = patch.Wednesday
	}
	if patch.Thursday != nil {
		merged.Thursday = patch.Thursday
	}
	if patch.Friday != nil {
		merged.Friday = patch.Friday
	}
	if patch.Saturday != nil {
		merged.Saturday = patch.Saturday
	}
	if patch.Sunday != nil {
		merged.Sunday = patch.Sunday
	}
	return merged
}

// Availability is a designer's bookable-time description: the recurring
// weekly rule plus full-day blackout dates. Owned exclusively by the
// designer; booking operations never mutate it.
type Availability struct {
	DesignerID       int64
	WorkingHours     WorkingHours
	UnavailableDates []time.Time // date-only values, interpreted in the canonical zone

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlackoutSet returns the unavailable dates as a set of "YYYY-MM-DD" keys
// in the given location
func (a *Availability) BlackoutSet(loc *time.Location) map[string]struct{} {
	set := make(map[string]struct{}, len(a.UnavailableDates))
	for _, d := range a.UnavailableDates {
		set[d.In(loc).Format(DateFormat)] = struct{}{}
	}
	return set
}
