package notifier

import "time"

// Типы задач, которые обрабатывает внешний воркер уведомлений
const (
	TypeBookingConfirmed = "booking:confirmed"
	TypeBookingCancelled = "booking:cancelled"
	TypeBookingReminder  = "booking:reminder"
)

// BookingPayload данные о бронировании для SMS/email уведомлений
type BookingPayload struct {
	BookingID          string    `json:"bookingId"`
	ServiceName        string    `json:"serviceName"`
	AddOnNames         []string  `json:"addOnNames,omitempty"`
	StartAt            time.Time `json:"startAt"`
	EndAt              time.Time `json:"endAt"`
	TimeZone           string    `json:"timezone"`
	PriceCents         int64     `json:"priceCents"`
	CustomerName       string    `json:"customerName"`
	CustomerPhone      string    `json:"customerPhone"`
	CustomerEmail      *string   `json:"customerEmail,omitempty"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
}
