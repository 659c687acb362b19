package get_bookable_slots

import (
	"time"

	"github.com/m04kA/DMP-BookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	DesignerID  int64     // ID дизайнера
	FromDate    time.Time // Первый день периода (только дата)
	ToDate      time.Time // Последний день периода (только дата, включительно)
	SlotMinutes int       // Длина слота в минутах, 0 - использовать значение по умолчанию
}

// Response модель ответа со слотами по дням периода
type Response struct {
	DesignerID int64             // ID дизайнера
	Days       []domain.DaySlots // По одному элементу на каждый день периода
	Zone       string            // Каноническая таймзона, в которой считались слоты
}
