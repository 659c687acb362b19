package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DMP-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	CreatorID  int64     // ID создателя (инициатор бронирования)
	DesignerID int64     // ID дизайнера
	StartAt    time.Time // Начало интервала (UTC)
	EndAt      time.Time // Конец интервала (UTC), не включается
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         uuid.UUID // ID созданного бронирования
	CreatorID  int64     // ID создателя
	DesignerID int64     // ID дизайнера
	StartAt    time.Time // Начало интервала
	EndAt      time.Time // Конец интервала
	Status     string    // Статус бронирования (всегда pending при создании)

	Timeline []domain.TimelineEntry // Журнал переходов

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
