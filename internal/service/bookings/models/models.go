package models

import (
	"time"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// Response модели

// AddOnResponse дополнительная опция в составе бронирования
type AddOnResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string          `json:"id"`
	ServiceID       string          `json:"serviceId"`
	ServiceName     string          `json:"serviceName"`
	AddOns          []AddOnResponse `json:"addOns"`
	Date            string          `json:"date"`       // "2026-10-20", локальная дата
	StartLocal      string          `json:"startLocal"` // "2026-10-20T10:00:00-04:00"
	EndLocal        string          `json:"endLocal"`
	StartUTC        time.Time       `json:"startUtc"`
	EndUTC          time.Time       `json:"endUtc"`
	DisplayLabel    string          `json:"displayLabel"` // "10:00–11:30"
	TimeZone        string          `json:"timezone"`
	DurationMinutes int             `json:"durationMinutes"`
	PriceCents      int64           `json:"priceCents"`
	PriceFormatted  string          `json:"priceFormatted"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`

	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	VehicleInfo   *string `json:"vehicleInfo,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Formatter форматирование цены
type Formatter interface {
	Format(minorUnits int64) string
	Code() string
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, loc *time.Location, prices Formatter) *BookingResponse {
	if b == nil {
		return nil
	}

	slot := domain.TimeSlot{Start: b.StartAt, End: b.EndAt}
	startLocal, endLocal := slot.Local(loc)

	addOns := make([]AddOnResponse, len(b.AddOnIDs))
	for i, id := range b.AddOnIDs {
		addOns[i] = AddOnResponse{ID: id}
		if i < len(b.AddOnNames) {
			addOns[i].Name = b.AddOnNames[i]
		}
	}

	resp := &BookingResponse{
		ID:                 b.ID.String(),
		ServiceID:          b.ServiceID,
		ServiceName:        b.ServiceName,
		AddOns:             addOns,
		Date:               startLocal.Format(domain.DateFormat),
		StartLocal:         startLocal.Format(time.RFC3339),
		EndLocal:           endLocal.Format(time.RFC3339),
		StartUTC:           b.StartAt.UTC(),
		EndUTC:             b.EndAt.UTC(),
		DisplayLabel:       slot.Label(loc),
		TimeZone:           loc.String(),
		DurationMinutes:    b.DurationMinutes,
		PriceCents:         b.PriceCents,
		PriceFormatted:     prices.Format(b.PriceCents),
		Currency:           prices.Code(),
		Status:             string(b.Status),
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		CustomerEmail:      b.CustomerEmail,
		VehicleInfo:        b.VehicleInfo,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}
