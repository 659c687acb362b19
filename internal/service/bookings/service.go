package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/DMP-BookingService/internal/service/bookings/models"
	"github.com/m04kA/DMP-BookingService/pkg/ptr"
)

// defaultDesignerCancelNote примечание по умолчанию при отмене дизайнером без причины
const defaultDesignerCancelNote = "Cancelled by designer"

// Service сервис жизненного цикла бронирований.
// Каждый переход статуса выполняется в транзакции вместе с записью в timeline,
// уведомление отправляется после коммита и не влияет на результат операции.
type Service struct {
	bookingRepo  BookingRepository
	notifyClient NotifyGatewayClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifyClient NotifyGatewayClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		notifyClient: notifyClient,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видят только его участники - создатель и дизайнер
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.CreatorID != userID && booking.DesignerID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetCreatorBookings получает историю бронирований создателя
// Опционально фильтрует по статусу
func (s *Service) GetCreatorBookings(ctx context.Context, req *models.GetCreatorBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCreatorBookings: fetching bookings for creator=%d, status=%v", req.CreatorID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCreatorBookings: invalid status=%s for creator=%d", *req.Status, req.CreatorID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCreator(ctx, req.CreatorID, domainStatus)
	if err != nil {
		s.logger.Error("GetCreatorBookings: repository error for creator=%d: %v", req.CreatorID, err)
		return nil, fmt.Errorf("%w: GetCreatorBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCreatorBookings: successfully fetched %d bookings for creator=%d", len(bookings), req.CreatorID)
	return models.FromDomainBookingList(bookings), nil
}

// GetDesignerBookings получает бронирования дизайнера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению терминальных бронирований
func (s *Service) GetDesignerBookings(ctx context.Context, req *models.GetDesignerBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetDesignerBookings: fetching bookings for designer=%d", req.DesignerID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetDesignerBookings: invalid filter for designer=%d: %v", req.DesignerID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByDesignerWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetDesignerBookings: repository error for designer=%d: %v", req.DesignerID, err)
		return nil, fmt.Errorf("%w: GetDesignerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDesignerBookings: successfully fetched %d bookings for designer=%d", len(bookings), req.DesignerID)
	return models.FromDomainBookingList(bookings), nil
}

// Respond обрабатывает ответ дизайнера на pending-бронирование
// accept=true переводит в approved, accept=false - в declined
func (s *Service) Respond(ctx context.Context, req *models.RespondBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Respond: designer=%d responding to booking id=%s, accept=%v",
		req.DesignerID, req.BookingID, req.Accept)

	if err := validateReason(req.Reason); err != nil {
		s.logger.Warn("Respond: invalid reason for booking id=%s: %v", req.BookingID, err)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Respond: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Respond: repository error for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Respond - repository error: %v", ErrInternal, err)
	}

	// Отвечать может только дизайнер, которому адресовано бронирование
	if booking.DesignerID != req.DesignerID {
		s.logger.Warn("Respond: access denied for user=%d to booking id=%s", req.DesignerID, req.BookingID)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeResponded() {
		s.logger.Warn("Respond: booking id=%s cannot be responded, status=%s", req.BookingID, booking.Status)
		return nil, ErrInvalidState
	}

	newStatus := domain.StatusApproved
	action := domain.ActionApproved
	// Колонка reason заполняется только при отклонении; комментарий к
	// подтверждению остаётся в timeline
	var reason *string
	if !req.Accept {
		newStatus = domain.StatusDeclined
		action = domain.ActionDeclined
		reason = req.Reason
	}

	updated, err := s.transition(ctx, req.BookingID, []domain.BookingStatus{domain.StatusPending}, newStatus, req.DesignerID, action, reason, req.Reason)
	if err != nil {
		return nil, err
	}

	// Уведомляем создателя о решении дизайнера
	eventType := domain.EventBookingApproved
	message := "Your booking request has been approved"
	if !req.Accept {
		eventType = domain.EventBookingDeclined
		message = "Your booking request has been declined"
	}
	s.sendNotification(ctx, domain.BookingEvent{
		Type:            eventType,
		BookingID:       updated.ID,
		RecipientUserID: updated.CreatorID,
		Message:         message,
	})

	s.logger.Info("Respond: booking id=%s transitioned to status=%s", req.BookingID, newStatus)
	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет бронирование
// Создатель может отменить pending или approved бронирование (cancelled_by_creator)
// Дизайнер может отменить только approved бронирование (cancelled_by_designer)
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%d", req.BookingID, req.UserID)

	if err := validateReason(req.Reason); err != nil {
		s.logger.Warn("Cancel: invalid reason for booking id=%s: %v", req.BookingID, err)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	var (
		cancelStatus domain.BookingStatus
		action       string
		allowedFrom  []domain.BookingStatus
		recipient    int64
		reason       = req.Reason
	)

	switch req.UserID {
	case booking.CreatorID:
		if !booking.CanBeCancelledByCreator() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled by creator, status=%s", req.BookingID, booking.Status)
			return nil, ErrInvalidState
		}
		cancelStatus = domain.StatusCancelledByCreator
		action = domain.ActionCancelledByCreator
		allowedFrom = []domain.BookingStatus{domain.StatusPending, domain.StatusApproved}
		recipient = booking.DesignerID
	case booking.DesignerID:
		if !booking.CanBeCancelledByDesigner() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled by designer, status=%s", req.BookingID, booking.Status)
			return nil, ErrInvalidState
		}
		cancelStatus = domain.StatusCancelledByDesigner
		action = domain.ActionCancelledByDesigner
		allowedFrom = []domain.BookingStatus{domain.StatusApproved}
		recipient = booking.CreatorID
		if reason == nil {
			reason = ptr.Ptr(defaultDesignerCancelNote)
		}
	default:
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%s", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	updated, err := s.transition(ctx, req.BookingID, allowedFrom, cancelStatus, req.UserID, action, reason, reason)
	if err != nil {
		return nil, err
	}

	s.sendNotification(ctx, domain.BookingEvent{
		Type:            domain.EventBookingCancelled,
		BookingID:       updated.ID,
		RecipientUserID: recipient,
		Message:         "Booking has been cancelled",
	})

	s.logger.Info("Cancel: booking id=%s cancelled with status=%s", req.BookingID, cancelStatus)
	return models.FromDomainBooking(updated), nil
}

// ExpireStale переводит в expired все pending-бронирования, чьё время начала
// уже прошло относительно now. Возвращает количество затронутых бронирований.
// Идемпотентна: повторный вызов с тем же now вернёт 0.
func (s *Service) ExpireStale(ctx context.Context, now time.Time) (*models.ExpireStaleResponse, error) {
	s.logger.Info("ExpireStale: sweeping stale pending bookings, now=%s", now.Format(time.RFC3339))

	var expired []*domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var txErr error
		expired, txErr = s.bookingRepo.ExpireStale(ctx, now)
		if txErr != nil {
			return txErr
		}

		for _, booking := range expired {
			entry := domain.TimelineEntry{
				At:     now,
				By:     0, // системный переход, актора нет
				Action: domain.ActionExpired,
			}
			if txErr = s.bookingRepo.AppendTimeline(ctx, booking.ID, entry); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ExpireStale: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: ExpireStale - transaction failed: %v", ErrInternal, err)
	}

	// Просроченное бронирование - упущенный запрос создателя
	for _, booking := range expired {
		s.sendNotification(ctx, domain.BookingEvent{
			Type:            domain.EventBookingExpired,
			BookingID:       booking.ID,
			RecipientUserID: booking.CreatorID,
			Message:         "Booking request expired before the designer responded",
		})
	}

	s.logger.Info("ExpireStale: expired %d bookings", len(expired))
	return &models.ExpireStaleResponse{ExpiredCount: len(expired)}, nil
}

// Вспомогательные методы

// transition выполняет переход статуса и запись timeline в одной транзакции.
// reason сохраняется в колонку бронирования, note уходит в запись timeline.
func (s *Service) transition(
	ctx context.Context,
	id uuid.UUID,
	allowedFrom []domain.BookingStatus,
	to domain.BookingStatus,
	actorID int64,
	action string,
	reason *string,
	note *string,
) (*domain.Booking, error) {
	var updated *domain.Booking

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var txErr error
		updated, txErr = s.bookingRepo.UpdateStatusFrom(ctx, id, allowedFrom, to, reason)
		if txErr != nil {
			return txErr
		}

		entry := domain.TimelineEntry{
			At:     s.timeProvider.Now(),
			By:     actorID,
			Action: action,
			Note:   note,
		}
		return s.bookingRepo.AppendTimeline(ctx, id, entry)
	})

	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, bookingRepo.ErrStatusNotAllowed):
			// Статус изменился между чтением и переходом
			return nil, ErrInvalidState
		default:
			s.logger.Error("transition: failed for booking id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: transition failed: %v", ErrInternal, err)
		}
	}

	// Перечитываем бронирование, чтобы вернуть полный timeline
	full, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("transition: failed to reload booking id=%s after transition: %v", id, err)
		return updated, nil
	}

	return full, nil
}

// sendNotification отправляет уведомление best-effort: ошибка только логируется
func (s *Service) sendNotification(ctx context.Context, event domain.BookingEvent) {
	if err := s.notifyClient.Notify(ctx, event); err != nil {
		s.logger.Error("sendNotification: failed to deliver %s for booking id=%s to user=%d: %v",
			event.Type, event.BookingID, event.RecipientUserID, err)
	}
}

func validateReason(reason *string) error {
	if reason != nil && len(*reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return nil
}
