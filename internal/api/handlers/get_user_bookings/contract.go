package get_user_bookings

import (
	"context"

	"github.com/m04kA/DMP-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetCreatorBookings(ctx context.Context, req *models.GetCreatorBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
