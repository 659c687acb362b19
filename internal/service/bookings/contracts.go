package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DMP-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByCreator(ctx context.Context, creatorID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByDesignerWithFilter(ctx context.Context, filter domain.DesignerBookingsFilter) ([]*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, allowedFrom []domain.BookingStatus, to domain.BookingStatus, reason *string) (*domain.Booking, error)
	ExpireStale(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	AppendTimeline(ctx context.Context, bookingID uuid.UUID, entry domain.TimelineEntry) error
}

// NotifyGatewayClient интерфейс клиента для NotifyGateway
type NotifyGatewayClient interface {
	Notify(ctx context.Context, event domain.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
