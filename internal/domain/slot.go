package domain

import "time"

// Slot is a fixed-duration candidate appointment window.
// Slots are computed on demand from availability and never persisted.
type Slot struct {
	StartAt time.Time
	EndAt   time.Time
}

// Overlaps reports whether the slot's half-open interval overlaps [start, end)
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && start.Before(s.EndAt)
}

// DaySlots is the bookable-slots answer for a single calendar date
type DaySlots struct {
	Date  time.Time
	Slots []Slot
}
