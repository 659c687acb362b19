package get_bookable_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/availability"
	userClient "github.com/m04kA/DMP-BookingService/internal/integrations/userdirectory"
)

// UseCase use case для получения бронируемых слотов дизайнера.
// Комбинирует недельное расписание, blackout-даты и активные бронирования;
// все вычисления ведутся в канонической таймзоне сервиса.
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	userClient       UserDirectoryClient
	location         *time.Location
	defaultSlotMins  int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	userClient UserDirectoryClient,
	location *time.Location,
	defaultSlotMins int,
	logger Logger,
) *UseCase {
	if defaultSlotMins <= 0 {
		defaultSlotMins = domain.DefaultSlotDurationMinutes
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		userClient:       userClient,
		location:         location,
		defaultSlotMins:  defaultSlotMins,
		logger:           logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetBookableSlots: designer=%d, from=%s, to=%s, slotMinutes=%d",
		req.DesignerID, req.FromDate.Format(domain.DateFormat), req.ToDate.Format(domain.DateFormat), req.SlotMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetBookableSlots: validation failed: %v", err)
		return nil, err
	}

	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = uc.defaultSlotMins
	}

	// 2. Проверяем дизайнера и его роль
	designer, err := uc.userClient.GetUser(ctx, req.DesignerID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("GetBookableSlots: designer id=%d not found", req.DesignerID)
			return nil, ErrDesignerNotFound
		}
		uc.logger.Error("GetBookableSlots: failed to get designer id=%d: %v", req.DesignerID, err)
		return nil, fmt.Errorf("%w: failed to get designer: %v", ErrInternal, err)
	}

	if !designer.IsDesigner() {
		uc.logger.Warn("GetBookableSlots: user id=%d has role=%s, not a designer", req.DesignerID, designer.Role)
		return nil, ErrDesignerNotFound
	}

	// Границы периода в канонической таймзоне
	rangeStart := startOfDay(req.FromDate, uc.location)
	rangeEnd := startOfDay(req.ToDate, uc.location).AddDate(0, 0, 1)

	// 3. Получаем доступность
	// Отсутствие записи - не ошибка: дизайнер ещё не настроил расписание,
	// все дни периода возвращаются пустыми
	availability, err := uc.availabilityRepo.Get(ctx, req.DesignerID)
	if err != nil {
		if !errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			uc.logger.Error("GetBookableSlots: failed to get availability for designer=%d: %v", req.DesignerID, err)
			return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
		}
		availability = &domain.Availability{DesignerID: req.DesignerID}
	}

	// 4. Активные бронирования дизайнера за период
	filter := domain.DesignerBookingsFilter{
		DesignerID:      req.DesignerID,
		From:            &rangeStart,
		To:              &rangeEnd,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetByDesignerWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetBookableSlots: failed to get bookings for designer=%d: %v", req.DesignerID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Генерируем слоты по дням и отбрасываем конфликтующие
	blackouts := availability.BlackoutSet(uc.location)
	days := make([]domain.DaySlots, 0)
	totalSlots := 0

	for date := rangeStart; date.Before(rangeEnd); date = date.AddDate(0, 0, 1) {
		daySlots := domain.DaySlots{Date: date, Slots: []domain.Slot{}}

		if !isBlackoutDate(date, blackouts, uc.location) {
			slots := generateSlotsForDay(date, availability.WorkingHours, slotMinutes, uc.location)
			daySlots.Slots = removeConflicts(slots, bookings)
		}

		totalSlots += len(daySlots.Slots)
		days = append(days, daySlots)
	}

	uc.logger.Info("GetBookableSlots: generated %d slots over %d days for designer=%d",
		totalSlots, len(days), req.DesignerID)

	return &Response{
		DesignerID: req.DesignerID,
		Days:       days,
		Zone:       uc.location.String(),
	}, nil
}

// startOfDay возвращает полночь календарного дня даты date в loc
func startOfDay(date time.Time, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
