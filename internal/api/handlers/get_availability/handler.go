package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/DMP-BookingService/internal/api/handlers"
	"github.com/m04kA/DMP-BookingService/internal/service/availability"
)

const (
	msgInvalidDesignerID = "некорректный ID дизайнера"
	msgNotFound          = "доступность не настроена"
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

// Handle GET /api/v1/designers/{designerId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	designerID, err := strconv.ParseInt(vars["designerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /designers/{id}/availability - Invalid designer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDesignerID)
		return
	}

	result, err := h.service.Get(r.Context(), designerID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAvailabilityNotFound):
			h.logger.Warn("GET /designers/{id}/availability - Not found: designer_id=%d", designerID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /designers/{id}/availability - Failed to get availability: designer_id=%d, error=%v",
				designerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /designers/{id}/availability - Availability retrieved successfully: designer_id=%d", designerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
