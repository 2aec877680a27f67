package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a reserved interval of the detailing calendar
type Booking struct {
	ID              uuid.UUID
	ServiceID       string
	AddOnIDs        []string
	StartAt         time.Time // UTC
	EndAt           time.Time // UTC, StartAt + DurationMinutes (без буфера)
	DurationMinutes int
	PriceCents      int64 // фиксируется при создании
	Status          BookingStatus

	// Denormalized data for history
	ServiceName string
	AddOnNames  []string

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	VehicleInfo   *string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies the calendar
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// BlockedInterval интервал бронирования, расширенный буфером с обеих сторон
func (b *Booking) BlockedInterval(buffer time.Duration) (time.Time, time.Time) {
	return b.StartAt.Add(-buffer), b.EndAt.Add(buffer)
}

// BookingsFilter фильтр для выборки бронирований по интервалу времени
// Бронирование попадает в выборку, если пересекается с [From, To)
type BookingsFilter struct {
	From            time.Time
	To              time.Time
	IncludeInactive bool // Включать ли отменённые бронирования
}

// Matches проверяет бронирование на соответствие фильтру
func (f BookingsFilter) Matches(b *Booking) bool {
	if !f.IncludeInactive && !b.IsActive() {
		return false
	}
	return b.StartAt.Before(f.To) && b.EndAt.After(f.From)
}
