package get_bookable_slots

import (
	"fmt"

	"github.com/m04kA/DMP-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DesignerID <= 0 {
		return fmt.Errorf("%w: designerID must be positive", ErrInvalidInput)
	}

	if req.FromDate.IsZero() {
		return fmt.Errorf("%w: fromDate is required", ErrInvalidInput)
	}

	if req.ToDate.IsZero() {
		return fmt.Errorf("%w: toDate is required", ErrInvalidInput)
	}

	if req.ToDate.Before(req.FromDate) {
		return fmt.Errorf("%w: toDate must not be before fromDate", ErrInvalidInput)
	}

	// Период ограничен, чтобы один запрос не генерировал тысячи слотов
	days := int(req.ToDate.Sub(req.FromDate).Hours()/24) + 1
	if days > domain.MaxSlotRangeDays {
		return fmt.Errorf("%w: at most %d days per request", ErrRangeTooWide, domain.MaxSlotRangeDays)
	}

	if req.SlotMinutes != 0 {
		if req.SlotMinutes < domain.MinSlotDurationMinutes || req.SlotMinutes > domain.MaxSlotDurationMinutes {
			return fmt.Errorf("%w: slotMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
		}
	}

	return nil
}
