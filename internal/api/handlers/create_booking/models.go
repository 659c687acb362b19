package create_booking

import (
	"time"

	createBooking "github.com/m04kA/DMP-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	DesignerID int64  `json:"designerId" validate:"required,gt=0"`
	StartAt    string `json:"startAt" validate:"required"` // RFC 3339, например "2025-11-03T09:00:00Z"
	EndAt      string `json:"endAt" validate:"required"`   // RFC 3339
}

// TimelineEntryResponse запись журнала бронирования
type TimelineEntryResponse struct {
	At     string  `json:"at"`
	By     int64   `json:"by"`
	Action string  `json:"action"`
	Note   *string `json:"note,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         string                  `json:"id"`
	CreatorID  int64                   `json:"creatorId"`
	DesignerID int64                   `json:"designerId"`
	StartAt    string                  `json:"startAt"`
	EndAt      string                  `json:"endAt"`
	Status     string                  `json:"status"`
	Timeline   []TimelineEntryResponse `json:"timeline"`
	CreatedAt  string                  `json:"createdAt"`
	UpdatedAt  string                  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(creatorID int64) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CreatorID:  creatorID,
		DesignerID: r.DesignerID,
		StartAt:    startAt.UTC(),
		EndAt:      endAt.UTC(),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	timeline := make([]TimelineEntryResponse, len(resp.Timeline))
	for i, entry := range resp.Timeline {
		timeline[i] = TimelineEntryResponse{
			At:     entry.At.Format(time.RFC3339),
			By:     entry.By,
			Action: entry.Action,
			Note:   entry.Note,
		}
	}

	return &BookingResponse{
		ID:         resp.ID.String(),
		CreatorID:  resp.CreatorID,
		DesignerID: resp.DesignerID,
		StartAt:    resp.StartAt.Format(time.RFC3339),
		EndAt:      resp.EndAt.Format(time.RFC3339),
		Status:     resp.Status,
		Timeline:   timeline,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
