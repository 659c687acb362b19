package notifygateway

// NotificationRequest модель запроса на отправку уведомления.
// Room в NotifyGateway совпадает с ID пользователя-получателя.
type NotificationRequest struct {
	Room      int64  `json:"room"`
	Event     string `json:"event"`
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

// ErrorResponse модель ошибки от NotifyGateway
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
