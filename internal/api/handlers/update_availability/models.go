package update_availability

import (
	"github.com/m04kA/DMP-BookingService/internal/service/availability/models"
)

// UpdateAvailabilityRequest HTTP request model
type UpdateAvailabilityRequest struct {
	WorkingHours     *models.WorkingHoursPayload `json:"workingHours,omitempty"`
	UnavailableDates *[]string                   `json:"unavailableDates,omitempty"` // "YYYY-MM-DD"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(designerID, actorID int64) *models.UpdateAvailabilityRequest {
	return &models.UpdateAvailabilityRequest{
		DesignerID:       designerID,
		ActorID:          actorID,
		WorkingHours:     r.WorkingHours,
		UnavailableDates: r.UnavailableDates,
	}
}
