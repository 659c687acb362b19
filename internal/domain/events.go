package domain

import "github.com/google/uuid"

// EventType identifies a booking lifecycle event
type EventType string

const (
	EventBookingCreated   EventType = "bookingCreated"
	EventBookingApproved  EventType = "bookingApproved"
	EventBookingDeclined  EventType = "bookingDeclined"
	EventBookingCancelled EventType = "bookingCancelled"
	EventBookingExpired   EventType = "bookingExpired"
)

// BookingEvent is emitted on every lifecycle transition and addressed to
// the counterpart of the acting user. Delivery is fire-and-forget: the
// transition's durability never depends on it.
type BookingEvent struct {
	Type            EventType `json:"type"`
	BookingID       uuid.UUID `json:"bookingId"`
	RecipientUserID int64     `json:"recipientUserId"`
	Message         string    `json:"message"`
}
