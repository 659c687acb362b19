package availability

import "errors"

var (
	// ErrDesignerNotFound возвращается, когда дизайнер не найден в UserDirectory
	ErrDesignerNotFound = errors.New("designer not found")

	// ErrAvailabilityNotFound возвращается, когда у дизайнера нет настроенной доступности
	ErrAvailabilityNotFound = errors.New("availability not found")

	// ErrAccessDenied возвращается, когда доступность пытается изменить не её владелец
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
