package update_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/DMP-BookingService/internal/api/handlers"
	"github.com/m04kA/DMP-BookingService/internal/api/middleware"
	"github.com/m04kA/DMP-BookingService/internal/service/availability"
)

const (
	msgInvalidDesignerID  = "некорректный ID дизайнера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgDesignerNotFound   = "дизайнер не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/designers/{designerId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	designerID, err := strconv.ParseInt(vars["designerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /designers/{id}/availability - Invalid designer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDesignerID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /designers/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /designers/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest(designerID, actorID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /designers/{id}/availability - Access denied: designer_id=%d, actor_id=%d",
				designerID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrDesignerNotFound):
			h.logger.Warn("PUT /designers/{id}/availability - Designer not found: designer_id=%d", designerID)
			handlers.RespondNotFound(w, msgDesignerNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /designers/{id}/availability - Invalid input: designer_id=%d, error=%v",
				designerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /designers/{id}/availability - Failed to update availability: designer_id=%d, error=%v",
				designerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /designers/{id}/availability - Availability updated successfully: designer_id=%d", designerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
