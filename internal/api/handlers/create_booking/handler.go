package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/DMP-BookingService/internal/api/handlers"
	"github.com/m04kA/DMP-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/DMP-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC 3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotTaken          = "дизайнер уже занят в выбранное время"
	msgDesignerNotFound   = "дизайнер не найден"
	msgCreatorNotFound    = "пользователь не найден"
	msgAccessDenied       = "доступ запрещен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(creatorID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: creator_id=%d, designer_id=%d", creatorID, req.DesignerID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrDesignerNotFound):
			h.logger.Warn("POST /bookings - Designer not found: designer_id=%d", req.DesignerID)
			handlers.RespondNotFound(w, msgDesignerNotFound)

		case errors.Is(err, createBooking.ErrCreatorNotFound):
			h.logger.Warn("POST /bookings - Creator not found: creator_id=%d", creatorID)
			handlers.RespondNotFound(w, msgCreatorNotFound)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: creator_id=%d", creatorID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: creator_id=%d, designer_id=%d, error=%v",
				creatorID, req.DesignerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: creator_id=%d, designer_id=%d, error=%v",
				creatorID, req.DesignerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, creator_id=%d, designer_id=%d",
		result.ID, creatorID, req.DesignerID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
