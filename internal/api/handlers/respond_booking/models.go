package respond_booking

// RespondBookingRequest HTTP request model
type RespondBookingRequest struct {
	Accept bool    `json:"accept"`
	Reason *string `json:"reason,omitempty"`
}
