package create_booking

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CreatorID <= 0 {
		return fmt.Errorf("%w: creatorID must be positive", ErrInvalidInput)
	}

	if req.DesignerID <= 0 {
		return fmt.Errorf("%w: designerID must be positive", ErrInvalidInput)
	}

	if req.CreatorID == req.DesignerID {
		return fmt.Errorf("%w: creator cannot book own time", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.EndAt.IsZero() {
		return fmt.Errorf("%w: endAt is required", ErrInvalidInput)
	}

	// Интервал полуоткрытый [startAt, endAt), пустой интервал недопустим
	if !req.StartAt.Before(req.EndAt) {
		return fmt.Errorf("%w: startAt must be before endAt", ErrInvalidInput)
	}

	return nil
}
