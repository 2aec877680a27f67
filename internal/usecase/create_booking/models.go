package create_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID     string    `validate:"required,max=64"`
	AddOnIDs      []string  `validate:"max=20,dive,required,max=64"`
	StartAt       time.Time `validate:"required"` // Начало, выбранное из списка слотов (UTC)
	CustomerName  string    `validate:"required,max=200"`
	CustomerPhone string    `validate:"required,min=7,max=32"`
	CustomerEmail *string   `validate:"omitempty,email,max=254"`
	VehicleInfo   *string   `validate:"omitempty,max=200"`
	Notes         *string   `validate:"omitempty,max=500"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              uuid.UUID
	ServiceID       string
	ServiceName     string
	AddOnIDs        []string
	AddOnNames      []string
	StartAt         time.Time // UTC
	EndAt           time.Time // UTC
	DurationMinutes int
	PriceCents      int64 // зафиксированная на момент создания цена
	Status          string

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	VehicleInfo   *string
	Notes         *string

	CreatedAt time.Time
}
