package get_designer_bookings

import (
	"context"

	"github.com/m04kA/DMP-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetDesignerBookings(ctx context.Context, req *models.GetDesignerBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
