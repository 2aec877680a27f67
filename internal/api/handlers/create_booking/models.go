package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-DetailingBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     string   `json:"serviceId"`
	AddOnIDs      []string `json:"addOnIds,omitempty"`
	StartAt       string   `json:"startAt"` // RFC 3339, значение startUtc или startLocal из списка слотов
	CustomerName  string   `json:"customerName"`
	CustomerPhone string   `json:"customerPhone"`
	CustomerEmail *string  `json:"customerEmail,omitempty"`
	VehicleInfo   *string  `json:"vehicleInfo,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              string    `json:"id"`
	ServiceID       string    `json:"serviceId"`
	ServiceName     string    `json:"serviceName"`
	AddOnIDs        []string  `json:"addOnIds"`
	AddOnNames      []string  `json:"addOnNames"`
	StartUTC        time.Time `json:"startUtc"`
	EndUTC          time.Time `json:"endUtc"`
	DurationMinutes int       `json:"durationMinutes"`
	PriceCents      int64     `json:"priceCents"`
	Status          string    `json:"status"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerEmail   *string   `json:"customerEmail,omitempty"`
	VehicleInfo     *string   `json:"vehicleInfo,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       string    `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ServiceID:     r.ServiceID,
		AddOnIDs:      r.AddOnIDs,
		StartAt:       startAt.UTC(),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		VehicleInfo:   r.VehicleInfo,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID.String(),
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		AddOnIDs:        nonNil(resp.AddOnIDs),
		AddOnNames:      nonNil(resp.AddOnNames),
		StartUTC:        resp.StartAt.UTC(),
		EndUTC:          resp.EndAt.UTC(),
		DurationMinutes: resp.DurationMinutes,
		PriceCents:      resp.PriceCents,
		Status:          resp.Status,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		CustomerEmail:   resp.CustomerEmail,
		VehicleInfo:     resp.VehicleInfo,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
