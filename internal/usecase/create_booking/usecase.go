package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/DMP-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DMP-BookingService/internal/infra/storage/booking"
	userClient "github.com/m04kA/DMP-BookingService/internal/integrations/userdirectory"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	userClient   UserDirectoryClient
	notifyClient NotifyGatewayClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	userClient UserDirectoryClient,
	notifyClient NotifyGatewayClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		userClient:   userClient,
		notifyClient: notifyClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и вставка выполняются в сериализуемой транзакции,
// exclusion constraint в БД страхует от гонки за пределами транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: creator=%d, designer=%d, start=%s, end=%s",
		req.CreatorID, req.DesignerID, req.StartAt, req.EndAt)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем создателя
	creator, err := uc.userClient.GetUser(ctx, req.CreatorID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: creator id=%d not found", req.CreatorID)
			return nil, ErrCreatorNotFound
		}
		uc.logger.Error("CreateBooking: failed to get creator id=%d: %v", req.CreatorID, err)
		return nil, fmt.Errorf("%w: failed to get creator: %v", ErrInternal, err)
	}

	// Дизайнер не может выступать создателем бронирования
	if creator.IsDesigner() {
		uc.logger.Warn("CreateBooking: user id=%d is a designer, cannot create bookings", req.CreatorID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем дизайнера и его роль
	designer, err := uc.userClient.GetUser(ctx, req.DesignerID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: designer id=%d not found", req.DesignerID)
			return nil, ErrDesignerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get designer id=%d: %v", req.DesignerID, err)
		return nil, fmt.Errorf("%w: failed to get designer: %v", ErrInternal, err)
	}

	if !designer.IsDesigner() {
		uc.logger.Warn("CreateBooking: user id=%d has role=%s, not a designer", req.DesignerID, designer.Role)
		return nil, ErrDesignerNotFound
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	// 4. Проверка пересечений и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Активные бронирования дизайнера на этот интервал с блокировкой (FOR UPDATE)
		overlapping, err := uc.bookingRepo.GetActiveOverlapping(txCtx, req.DesignerID, req.StartAt, req.EndAt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: designer=%d already has %d active bookings in [%s, %s)",
				req.DesignerID, len(overlapping), req.StartAt, req.EndAt)
			return ErrSlotTaken
		}

		// 4.2. Создаём бронирование в статусе pending с первой записью timeline
		booking := &domain.Booking{
			ID:         uuid.New(),
			CreatorID:  req.CreatorID,
			DesignerID: req.DesignerID,
			StartAt:    req.StartAt,
			EndAt:      req.EndAt,
			Status:     domain.StatusPending,
			Timeline: []domain.TimelineEntry{
				{
					At:     now,
					By:     req.CreatorID,
					Action: domain.ActionCreated,
				},
			},
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				// Exclusion constraint сработал - интервал заняли параллельно
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrInternal):
			return nil, err
		case isSerializationFailure(err):
			// Повторы SERIALIZABLE-транзакции исчерпаны: интервал рвут
			// конкурентные записи, для клиента это занятый слот
			uc.logger.Warn("CreateBooking: serialization retries exhausted for designer=%d: %v", req.DesignerID, err)
			return nil, ErrSlotTaken
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	// 5. Уведомляем дизайнера о новом запросе (best-effort)
	event := domain.BookingEvent{
		Type:            domain.EventBookingCreated,
		BookingID:       result.ID,
		RecipientUserID: result.DesignerID,
		Message:         "New booking request",
	}
	if notifyErr := uc.notifyClient.Notify(ctx, event); notifyErr != nil {
		uc.logger.Error("CreateBooking: failed to notify designer=%d about booking id=%s: %v",
			result.DesignerID, result.ID, notifyErr)
	}

	return &Response{
		ID:         result.ID,
		CreatorID:  result.CreatorID,
		DesignerID: result.DesignerID,
		StartAt:    result.StartAt,
		EndAt:      result.EndAt,
		Status:     string(result.Status),
		Timeline:   result.Timeline,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}

// isSerializationFailure проверяет, вызвана ли ошибка конфликтом
// SERIALIZABLE-транзакций или deadlock'ом в Postgres
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
