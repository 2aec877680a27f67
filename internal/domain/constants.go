package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultBufferMinutes          = 15
	DefaultMinLeadTimeMinutes     = 120
	DefaultAdvanceBookingDays     = 60
	DefaultTimeZone               = "America/New_York"
	DefaultCurrency               = "USD"
	DefaultLanguage               = "en-US"
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MaxServiceDurationMinutes   = 720 // 12 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
