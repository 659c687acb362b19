package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Overlaps(t *testing.T) {
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	booking := &Booking{
		StartAt: base,
		EndAt:   base.Add(time.Hour),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "identical interval", start: base, end: base.Add(time.Hour), want: true},
		{name: "partial overlap at start", start: base.Add(-30 * time.Minute), end: base.Add(30 * time.Minute), want: true},
		{name: "partial overlap at end", start: base.Add(30 * time.Minute), end: base.Add(90 * time.Minute), want: true},
		{name: "contained", start: base.Add(15 * time.Minute), end: base.Add(45 * time.Minute), want: true},
		{name: "containing", start: base.Add(-time.Hour), end: base.Add(2 * time.Hour), want: true},
		{name: "touching before", start: base.Add(-time.Hour), end: base, want: false},
		{name: "touching after", start: base.Add(time.Hour), end: base.Add(2 * time.Hour), want: false},
		{name: "disjoint", start: base.Add(3 * time.Hour), end: base.Add(4 * time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.start, tt.end))
		})
	}
}

func TestSlot_Overlaps(t *testing.T) {
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	slot := Slot{
		StartAt: base,
		EndAt:   base.Add(time.Hour),
	}

	assert.True(t, slot.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.True(t, slot.Overlaps(base.Add(-time.Hour), base.Add(2*time.Hour)))
	assert.False(t, slot.Overlaps(base.Add(-time.Hour), base))
	assert.False(t, slot.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)))
}

func TestBooking_StatusPredicates(t *testing.T) {
	tests := []struct {
		status              BookingStatus
		active              bool
		terminal            bool
		respondable         bool
		creatorCancellable  bool
		designerCancellable bool
	}{
		{StatusPending, true, false, true, true, false},
		{StatusApproved, true, false, false, true, true},
		{StatusDeclined, false, true, false, false, false},
		{StatusCancelledByCreator, false, true, false, false, false},
		{StatusCancelledByDesigner, false, true, false, false, false},
		{StatusExpired, false, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.active, b.IsActive())
			assert.Equal(t, tt.terminal, b.IsTerminal())
			assert.Equal(t, tt.respondable, b.CanBeResponded())
			assert.Equal(t, tt.creatorCancellable, b.CanBeCancelledByCreator())
			assert.Equal(t, tt.designerCancellable, b.CanBeCancelledByDesigner())
		})
	}
}

func TestWorkingHours_Merge(t *testing.T) {
	current := WorkingHours{
		Monday:  &DayHours{Start: "09:00", End: "18:00"},
		Tuesday: &DayHours{Start: "10:00", End: "16:00"},
	}
	patch := WorkingHours{
		Monday: &DayHours{Start: "12:00", End: "20:00"},
		Friday: &DayHours{Start: "09:00", End: "13:00"},
	}

	merged := current.Merge(patch)

	assert.Equal(t, "12:00", string(merged.Monday.Start))
	assert.Equal(t, "10:00", string(merged.Tuesday.Start))
	assert.Equal(t, "09:00", string(merged.Friday.Start))
	assert.Nil(t, merged.Wednesday)

	// Исходное расписание не мутируется
	assert.Equal(t, "09:00", string(current.Monday.Start))
	assert.Nil(t, current.Friday)
}

func TestWorkingHours_ForWeekday(t *testing.T) {
	hours := WorkingHours{
		Monday: &DayHours{Start: "09:00", End: "18:00"},
	}

	assert.NotNil(t, hours.ForWeekday(time.Monday))
	assert.Nil(t, hours.ForWeekday(time.Sunday))
}

func TestDayHours_IsComplete(t *testing.T) {
	var nilDay *DayHours
	assert.False(t, nilDay.IsComplete())
	assert.False(t, (&DayHours{Start: "09:00"}).IsComplete())
	assert.True(t, (&DayHours{Start: "09:00", End: "18:00"}).IsComplete())
}
