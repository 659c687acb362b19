package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 240
	MaxSlotRangeDays       = 31 // widest date range a single slots query may cover
	MaxReasonLength        = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Timeline actions
const (
	ActionCreated             = "created"
	ActionApproved            = "approved"
	ActionDeclined            = "declined"
	ActionCancelledByCreator  = "cancelled_by_creator"
	ActionCancelledByDesigner = "cancelled_by_designer"
	ActionExpired             = "expired"
)

// ActiveStatuses список статусов, учитываемых инвариантом непересечения
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}

// TerminalStatuses список финальных статусов
var TerminalStatuses = []BookingStatus{
	StatusDeclined,
	StatusCancelledByCreator,
	StatusCancelledByDesigner,
	StatusExpired,
}
