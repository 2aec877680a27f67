package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingBooking/internal/catalog"
	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
)

// BookingRepository интерфейс хранилища бронирований
type BookingRepository interface {
	// ListByRange возвращает бронирования, пересекающиеся с интервалом фильтра
	ListByRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CatalogProvider источник актуального каталога услуг
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// MetricsRecorder учёт количества выданных слотов
type MetricsRecorder interface {
	ObserveSlots(serviceID string, count int)
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
