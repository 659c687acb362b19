package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusApproved            BookingStatus = "approved"
	StatusDeclined            BookingStatus = "declined"
	StatusCancelledByCreator  BookingStatus = "cancelled_by_creator"
	StatusCancelledByDesigner BookingStatus = "cancelled_by_designer"
	StatusExpired             BookingStatus = "expired"
)

// TimelineEntry is a single append-only audit record attached to a booking.
// Entries are never edited or removed.
type TimelineEntry struct {
	At     time.Time
	By     int64
	Action string
	Note   *string
}

// Booking represents a creator's request for a designer's time slot
type Booking struct {
	ID         uuid.UUID
	CreatorID  int64
	DesignerID int64

	// [StartAt, EndAt) stored as UTC instants; invariant StartAt < EndAt
	StartAt time.Time
	EndAt   time.Time

	Status BookingStatus

	// Reason is populated on decline and cancellations
	Reason *string

	Timeline []TimelineEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts towards the overlap invariant
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusDeclined ||
		b.Status == StatusCancelledByCreator ||
		b.Status == StatusCancelledByDesigner ||
		b.Status == StatusExpired
}

// CanBeResponded returns true if the designer may still approve or decline
func (b *Booking) CanBeResponded() bool {
	return b.Status == StatusPending
}

// CanBeCancelledByCreator returns true if the creator may cancel
func (b *Booking) CanBeCancelledByCreator() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// CanBeCancelledByDesigner returns true if the designer may cancel.
// Designers cannot retract a decline; they may only cancel after approving.
func (b *Booking) CanBeCancelledByDesigner() bool {
	return b.Status == StatusApproved
}

// Overlaps reports whether the booking's half-open interval [StartAt, EndAt)
// overlaps [start, end). Intervals that merely touch do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && start.Before(b.EndAt)
}

// DesignerBookingsFilter фильтр для выборки бронирований дизайнера
type DesignerBookingsFilter struct {
	DesignerID      int64          // Обязательный параметр
	From            *time.Time     // Начало интервала (опционально): end_at > From
	To              *time.Time     // Конец интервала (опционально): start_at < To
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли терминальные бронирования
}
