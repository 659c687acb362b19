package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DMP-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// RespondBookingRequest запрос дизайнера на подтверждение или отклонение
type RespondBookingRequest struct {
	BookingID  uuid.UUID `json:"bookingId"`
	DesignerID int64     `json:"designerId"`
	Accept     bool      `json:"accept"`
	Reason     *string   `json:"reason,omitempty"`
}

// CancelBookingRequest запрос на отмену бронирования.
// Инициатором может быть как создатель, так и дизайнер.
type CancelBookingRequest struct {
	BookingID uuid.UUID `json:"bookingId"`
	UserID    int64     `json:"userId"`
	Reason    *string   `json:"reason,omitempty"`
}

// GetCreatorBookingsRequest запрос на получение бронирований создателя
type GetCreatorBookingsRequest struct {
	CreatorID int64   `json:"creatorId"`
	Status    *string `json:"status,omitempty"`
}

// GetDesignerBookingsRequest запрос на получение бронирований дизайнера
type GetDesignerBookingsRequest struct {
	DesignerID      int64      `json:"designerId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить терминальные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetDesignerBookingsRequest) ToDomainFilter() (domain.DesignerBookingsFilter, error) {
	filter := domain.DesignerBookingsFilter{
		DesignerID:      r.DesignerID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// TimelineEntryResponse одна запись журнала бронирования
type TimelineEntryResponse struct {
	At     time.Time `json:"at"`
	By     int64     `json:"by"`
	Action string    `json:"action"`
	Note   *string   `json:"note,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         string  `json:"id"`
	CreatorID  int64   `json:"creatorId"`
	DesignerID int64   `json:"designerId"`
	StartAt    string  `json:"startAt"` // ISO 8601
	EndAt      string  `json:"endAt"`   // ISO 8601
	Status     string  `json:"status"`
	Reason     *string `json:"reason,omitempty"`

	Timeline []TimelineEntryResponse `json:"timeline"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ExpireStaleResponse результат перевода просроченных бронирований
type ExpireStaleResponse struct {
	ExpiredCount int `json:"expiredCount"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:         b.ID.String(),
		CreatorID:  b.CreatorID,
		DesignerID: b.DesignerID,
		StartAt:    b.StartAt.Format(time.RFC3339),
		EndAt:      b.EndAt.Format(time.RFC3339),
		Status:     string(b.Status),
		Reason:     b.Reason,
		Timeline:   make([]TimelineEntryResponse, len(b.Timeline)),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}

	for i, entry := range b.Timeline {
		resp.Timeline[i] = TimelineEntryResponse{
			At:     entry.At,
			By:     entry.By,
			Action: entry.Action,
			Note:   entry.Note,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusApproved,
		domain.StatusDeclined,
		domain.StatusCancelledByCreator,
		domain.StatusCancelledByDesigner,
		domain.StatusExpired,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
