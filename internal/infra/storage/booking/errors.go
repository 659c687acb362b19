package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда интервал пересекается с активным
	// бронированием дизайнера (exclusion constraint на уровне БД)
	ErrSlotTaken = errors.New("booking.repository: designer already booked for this time")

	// ErrStatusNotAllowed возвращается, когда переход запрещён из текущего статуса
	ErrStatusNotAllowed = errors.New("booking.repository: status transition not allowed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
