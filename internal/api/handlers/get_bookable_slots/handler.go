package get_bookable_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/DMP-BookingService/internal/api/handlers"
	"github.com/m04kA/DMP-BookingService/internal/domain"
	getBookableSlots "github.com/m04kA/DMP-BookingService/internal/usecase/get_bookable_slots"
)

const (
	msgInvalidDesignerID  = "некорректный ID дизайнера"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSlotMinutes = "некорректная длина слота"
	msgRangeTooWide       = "запрошенный период слишком большой"
	msgDesignerNotFound   = "дизайнер не найден"
	msgInvalidRequest     = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetBookableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetBookableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/designers/{designerId}/slots?from=YYYY-MM-DD&to=YYYY-MM-DD&slotMinutes=60
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	designerID, err := strconv.ParseInt(vars["designerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /designers/{id}/slots - Invalid designer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDesignerID)
		return
	}

	query := r.URL.Query()

	fromDate, err := time.Parse(domain.DateFormat, query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /designers/{id}/slots - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	toDate, err := time.Parse(domain.DateFormat, query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /designers/{id}/slots - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Длина слота опциональна, по умолчанию берётся из конфигурации сервиса
	slotMinutes := 0
	if raw := query.Get("slotMinutes"); raw != "" {
		slotMinutes, err = strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /designers/{id}/slots - Invalid slot minutes: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotMinutes)
			return
		}
	}

	useCaseReq := &getBookableSlots.Request{
		DesignerID:  designerID,
		FromDate:    fromDate,
		ToDate:      toDate,
		SlotMinutes: slotMinutes,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getBookableSlots.ErrDesignerNotFound):
			h.logger.Warn("GET /designers/{id}/slots - Designer not found: designer_id=%d", designerID)
			handlers.RespondNotFound(w, msgDesignerNotFound)

		case errors.Is(err, getBookableSlots.ErrRangeTooWide):
			h.logger.Warn("GET /designers/{id}/slots - Range too wide: designer_id=%d", designerID)
			handlers.RespondBadRequest(w, msgRangeTooWide)

		case errors.Is(err, getBookableSlots.ErrInvalidInput):
			h.logger.Warn("GET /designers/{id}/slots - Invalid input: designer_id=%d, error=%v", designerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /designers/{id}/slots - Failed to get slots: designer_id=%d, error=%v", designerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /designers/{id}/slots - Slots retrieved successfully: designer_id=%d, days=%d",
		designerID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
