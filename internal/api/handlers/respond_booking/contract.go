package respond_booking

import (
	"context"

	"github.com/m04kA/DMP-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Respond(ctx context.Context, req *models.RespondBookingRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
