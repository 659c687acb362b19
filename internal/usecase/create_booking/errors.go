package create_booking

import "errors"

var (
	// ErrDesignerNotFound возвращается, когда дизайнер не найден или роль не designer
	ErrDesignerNotFound = errors.New("create_booking: designer not found")

	// ErrCreatorNotFound возвращается, когда создатель не найден в UserDirectory
	ErrCreatorNotFound = errors.New("create_booking: creator not found")

	// ErrAccessDenied возвращается, когда бронирование пытается создать не создатель
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrSlotTaken возвращается, когда интервал пересекается с активным бронированием
	ErrSlotTaken = errors.New("create_booking: designer already booked for this time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
