package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/availability"
	"github.com/m04kA/DMP-BookingService/internal/integrations/userdirectory"
	"github.com/m04kA/DMP-BookingService/internal/service/availability/models"
)

// Service сервис управления доступностью дизайнеров.
// Доступность принадлежит дизайнеру: менять её может только владелец,
// бронирования её никогда не мутируют.
type Service struct {
	availabilityRepo AvailabilityRepository
	userClient       UserDirectoryClient
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	userClient UserDirectoryClient,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		userClient:       userClient,
		logger:           logger,
	}
}

// Get получает доступность дизайнера
// Отсутствие записи означает пустое расписание: дизайнер ещё ничего не настроил
func (s *Service) Get(ctx context.Context, designerID int64) (*models.AvailabilityResponse, error) {
	s.logger.Info("Get: fetching availability for designer=%d", designerID)

	availability, err := s.availabilityRepo.Get(ctx, designerID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("Get: availability for designer=%d not found", designerID)
			return nil, ErrAvailabilityNotFound
		}
		s.logger.Error("Get: repository error for designer=%d: %v", designerID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAvailability(availability), nil
}

// Update обновляет доступность дизайнера
// Рабочие часы мержатся по дням недели: отсутствующий день сохраняет текущее
// значение. Список blackout-дат заменяется целиком, если передан.
// Изменять доступность может только сам дизайнер.
func (s *Service) Update(ctx context.Context, req *models.UpdateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Update: updating availability for designer=%d by actor=%d", req.DesignerID, req.ActorID)

	if req.ActorID != req.DesignerID {
		s.logger.Warn("Update: access denied for actor=%d to availability of designer=%d", req.ActorID, req.DesignerID)
		return nil, ErrAccessDenied
	}

	if err := s.checkDesignerRole(ctx, req.DesignerID); err != nil {
		return nil, err
	}

	// Текущее состояние - база для частичного обновления
	current, err := s.availabilityRepo.Get(ctx, req.DesignerID)
	if err != nil {
		if !errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Error("Update: repository error for designer=%d: %v", req.DesignerID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		current = &domain.Availability{DesignerID: req.DesignerID}
	}

	if req.WorkingHours != nil {
		patch, err := req.WorkingHours.ToDomainWorkingHours()
		if err != nil {
			s.logger.Warn("Update: invalid working hours for designer=%d: %v", req.DesignerID, err)
			return nil, fmt.Errorf("%w: invalid working hours: %v", ErrInvalidInput, err)
		}
		if err := validateWorkingHours(patch); err != nil {
			s.logger.Warn("Update: invalid working hours for designer=%d: %v", req.DesignerID, err)
			return nil, err
		}
		current.WorkingHours = current.WorkingHours.Merge(patch)
	}

	if req.UnavailableDates != nil {
		dates, err := parseDates(*req.UnavailableDates)
		if err != nil {
			s.logger.Warn("Update: invalid unavailable dates for designer=%d: %v", req.DesignerID, err)
			return nil, err
		}
		current.UnavailableDates = dates
	}

	updated, err := s.availabilityRepo.Upsert(ctx, current)
	if err != nil {
		s.logger.Error("Update: failed to upsert availability for designer=%d: %v", req.DesignerID, err)
		return nil, fmt.Errorf("%w: Update - upsert failed: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated availability for designer=%d", req.DesignerID)
	return models.FromDomainAvailability(updated), nil
}

// Вспомогательные методы

// checkDesignerRole проверяет, что пользователь существует и является дизайнером
func (s *Service) checkDesignerRole(ctx context.Context, designerID int64) error {
	user, err := s.userClient.GetUser(ctx, designerID)
	if err != nil {
		if errors.Is(err, userdirectory.ErrUserNotFound) {
			s.logger.Warn("checkDesignerRole: designer=%d not found", designerID)
			return ErrDesignerNotFound
		}
		s.logger.Error("checkDesignerRole: failed to get user=%d: %v", designerID, err)
		return fmt.Errorf("%w: checkDesignerRole - failed to get user: %v", ErrInternal, err)
	}

	if !user.IsDesigner() {
		s.logger.Warn("checkDesignerRole: user=%d has role=%s, not a designer", designerID, user.Role)
		return ErrDesignerNotFound
	}

	return nil
}

// validateWorkingHours проверяет, что у каждого заданного дня начало раньше конца
func validateWorkingHours(hours domain.WorkingHours) error {
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		day := hours.ForWeekday(weekday)
		if day == nil {
			continue
		}
		if !day.IsComplete() {
			return fmt.Errorf("%w: working hours for %s are incomplete", ErrInvalidInput, weekday)
		}
		if !day.Start.IsBefore(day.End) {
			return fmt.Errorf("%w: working hours for %s: start must be before end", ErrInvalidInput, weekday)
		}
	}
	return nil
}

// parseDates парсит список дат формата YYYY-MM-DD
func parseDates(raw []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		date, err := time.Parse(domain.DateFormat, value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, value)
		}
		dates = append(dates, date)
	}
	return dates, nil
}
