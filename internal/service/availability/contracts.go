package availability

import (
	"context"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	"github.com/m04kA/DMP-BookingService/internal/integrations/userdirectory"
)

// AvailabilityRepository интерфейс репозитория доступности
type AvailabilityRepository interface {
	Get(ctx context.Context, designerID int64) (*domain.Availability, error)
	Upsert(ctx context.Context, availability *domain.Availability) (*domain.Availability, error)
}

// UserDirectoryClient интерфейс клиента для UserDirectory
type UserDirectoryClient interface {
	GetUser(ctx context.Context, userID int64) (*userdirectory.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
