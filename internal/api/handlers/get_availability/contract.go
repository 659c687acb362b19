package get_availability

import (
	"context"

	"github.com/m04kA/DMP-BookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	Get(ctx context.Context, designerID int64) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
