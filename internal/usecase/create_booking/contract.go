package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingBooking/internal/catalog"
	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
)

// BookingRepository интерфейс хранилища бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListByRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	LockDay(ctx context.Context, day string) error
}

// CatalogProvider источник актуального каталога услуг
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier получатель событий о созданных бронированиях (SMS, напоминания)
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *domain.Booking) error
}

// MetricsRecorder учёт исходов бронирования
type MetricsRecorder interface {
	ObserveReservation(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
