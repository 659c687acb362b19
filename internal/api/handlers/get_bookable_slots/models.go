package get_bookable_slots

import (
	"time"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	getBookableSlots "github.com/m04kA/DMP-BookingService/internal/usecase/get_bookable_slots"
)

// SlotResponse один бронируемый интервал
type SlotResponse struct {
	Start string `json:"start"` // RFC 3339
	End   string `json:"end"`   // RFC 3339
}

// DaySlotsResponse слоты одного календарного дня
type DaySlotsResponse struct {
	Date  string         `json:"date"` // "2025-11-03"
	Slots []SlotResponse `json:"slots"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	DesignerID int64              `json:"designerId"`
	Days       []DaySlotsResponse `json:"days"`
	Zone       string             `json:"zone"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getBookableSlots.Response) *SlotsResponse {
	days := make([]DaySlotsResponse, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]SlotResponse, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = SlotResponse{
				Start: slot.StartAt.Format(time.RFC3339),
				End:   slot.EndAt.Format(time.RFC3339),
			}
		}
		days[i] = DaySlotsResponse{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		}
	}

	return &SlotsResponse{
		DesignerID: resp.DesignerID,
		Days:       days,
		Zone:       resp.Zone,
	}
}
