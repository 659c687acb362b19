package models

import (
	"time"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	"github.com/m04kA/DMP-BookingService/pkg/types"
)

// Request модели

// DayHoursPayload рабочие часы одного дня недели
type DayHoursPayload struct {
	Start string `json:"start" validate:"required"` // "HH:MM"
	End   string `json:"end" validate:"required"`   // "HH:MM"
}

// WorkingHoursPayload частичное обновление недельного расписания.
// Отсутствующий день сохраняет текущее значение.
type WorkingHoursPayload struct {
	Monday    *DayHoursPayload `json:"mon,omitempty"`
	Tuesday   *DayHoursPayload `json:"tue,omitempty"`
	Wednesday *DayHoursPayload `json:"wed,omitempty"`
	Thursday  *DayHoursPayload `json:"thu,omitempty"`
	Friday    *DayHoursPayload `json:"fri,omitempty"`
	Saturday  *DayHoursPayload `json:"sat,omitempty"`
	Sunday    *DayHoursPayload `json:"sun,omitempty"`
}

// UpdateAvailabilityRequest запрос на обновление доступности дизайнера
type UpdateAvailabilityRequest struct {
	DesignerID int64 `json:"designerId"`
	ActorID    int64 `json:"actorId"`

	WorkingHours     *WorkingHoursPayload `json:"workingHours,omitempty"`
	UnavailableDates *[]string            `json:"unavailableDates,omitempty"` // "YYYY-MM-DD"
}

// Response модели

// DayHoursResponse рабочие часы одного дня недели
type DayHoursResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailabilityResponse ответ с данными доступности
type AvailabilityResponse struct {
	DesignerID       int64                        `json:"designerId"`
	WorkingHours     map[string]DayHoursResponse  `json:"workingHours"`
	UnavailableDates []string                     `json:"unavailableDates"`
	CreatedAt        time.Time                    `json:"createdAt"`
	UpdatedAt        time.Time                    `json:"updatedAt"`
}

// Методы конвертации

// ToDomainWorkingHours конвертирует payload в domain модель.
// Валидация формата выполняется на уровне сервиса.
func (p *WorkingHoursPayload) ToDomainWorkingHours() (domain.WorkingHours, error) {
	var hours domain.WorkingHours

	convert := func(d *DayHoursPayload) (*domain.DayHours, error) {
		if d == nil {
			return nil, nil
		}
		start, err := types.NewTimeStringFromString(d.Start)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromString(d.End)
		if err != nil {
			return nil, err
		}
		return &domain.DayHours{Start: start, End: end}, nil
	}

	var err error
	if hours.Monday, err = convert(p.Monday); err != nil {
		return hours, err
	}
	if hours.Tuesday, err = convert(p.Tuesday); err != nil {
		return hours, err
	}
	if hours.Wednesday, err = convert(p.Wednesday); err != nil {
		return hours, err
	}
	if hours.Thursday, err = convert(p.Thursday); err != nil {
		return hours, err
	}
	if hours.Friday, err = convert(p.Friday); err != nil {
		return hours, err
	}
	if hours.Saturday, err = convert(p.Saturday); err != nil {
		return hours, err
	}
	if hours.Sunday, err = convert(p.Sunday); err != nil {
		return hours, err
	}

	return hours, nil
}

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.Availability) *AvailabilityResponse {
	if a == nil {
		return nil
	}

	resp := &AvailabilityResponse{
		DesignerID:       a.DesignerID,
		WorkingHours:     make(map[string]DayHoursResponse),
		UnavailableDates: make([]string, len(a.UnavailableDates)),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	days := map[string]*domain.DayHours{
		"mon": a.WorkingHours.Monday,
		"tue": a.WorkingHours.Tuesday,
		"wed": a.WorkingHours.Wednesday,
		"thu": a.WorkingHours.Thursday,
		"fri": a.WorkingHours.Friday,
		"sat": a.WorkingHours.Saturday,
		"sun": a.WorkingHours.Sunday,
	}
	for key, day := range days {
		if day != nil {
			resp.WorkingHours[key] = DayHoursResponse{
				Start: day.Start.String(),
				End:   day.End.String(),
			}
		}
	}

	for i, date := range a.UnavailableDates {
		resp.UnavailableDates[i] = date.Format(domain.DateFormat)
	}

	return resp
}
