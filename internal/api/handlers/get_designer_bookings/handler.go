package get_designer_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/DMP-BookingService/internal/api/handlers"
	"github.com/m04kA/DMP-BookingService/internal/api/middleware"
	"github.com/m04kA/DMP-BookingService/internal/domain"
	"github.com/m04kA/DMP-BookingService/internal/service/bookings"
	"github.com/m04kA/DMP-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidDesignerID = "некорректный ID дизайнера"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
	msgInvalidFilter     = "некорректные параметры фильтрации"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/designers/{designerId}/bookings?from=YYYY-MM-DD&to=YYYY-MM-DD&status=pending&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	designerID, err := strconv.ParseInt(vars["designerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /designers/{id}/bookings - Invalid designer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDesignerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /designers/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Свой календарь видит только сам дизайнер
	if userID != designerID {
		h.logger.Warn("GET /designers/{id}/bookings - Access denied: user_id=%d, designer_id=%d", userID, designerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	query := r.URL.Query()

	serviceReq := &models.GetDesignerBookingsRequest{
		DesignerID:      designerID,
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /designers/{id}/bookings - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		serviceReq.From = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /designers/{id}/bookings - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		// Фильтр по интервалу полуоткрытый, включаем весь день to
		toEnd := to.AddDate(0, 0, 1)
		serviceReq.To = &toEnd
	}

	if status := query.Get("status"); status != "" {
		serviceReq.Status = &status
	}

	result, err := h.service.GetDesignerBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /designers/{id}/bookings - Invalid filter: designer_id=%d, error=%v", designerID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /designers/{id}/bookings - Failed to get bookings: designer_id=%d, error=%v",
			designerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /designers/{id}/bookings - Bookings retrieved successfully: designer_id=%d, count=%d",
		designerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
