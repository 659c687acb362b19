package get_bookable_slots

import "errors"

var (
	// ErrDesignerNotFound возвращается, когда дизайнер не найден или роль не designer
	ErrDesignerNotFound = errors.New("get_bookable_slots: designer not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_bookable_slots: invalid input data")

	// ErrRangeTooWide возвращается, когда запрошенный период превышает лимит
	ErrRangeTooWide = errors.New("get_bookable_slots: date range is too wide")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_bookable_slots: internal error")
)
