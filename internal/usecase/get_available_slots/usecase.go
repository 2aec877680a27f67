package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingBooking/internal/availability"
	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      CatalogProvider
	policy       *domain.CalendarPolicy
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog CatalogProvider,
	policy *domain.CalendarPolicy,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		policy:       policy,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Результат является снимком и не резервирует слоты: при бронировании всё проверяется заново.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, uc.policy.Location)

	uc.logger.Info("GetAvailableSlots: service=%s, addOns=%v, date=%s",
		req.ServiceID, req.AddOnIDs, date.Format(domain.DateFormat))

	// 2. Длительность работ по каталогу
	selection, err := uc.catalog.Current().Resolve(req.ServiceID, req.AddOnIDs)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: catalog lookup failed: %v", err)
		return nil, mapCatalogError(err)
	}

	resp := &Response{
		Date:            date,
		Location:        uc.policy.Location,
		DurationMinutes: selection.DurationMinutes,
		Slots:           []domain.TimeSlot{},
	}

	// 3. Рабочее окно дня; в выходной или нерабочий день хранилище не запрашиваем
	from, to, open := availability.DayWindow(date, uc.policy)
	if !open {
		uc.logger.Info("GetAvailableSlots: closed on %s", date.Format(domain.DateFormat))
		return resp, nil
	}

	// 4. Подтверждённые бронирования, которые могут задеть окно (с учётом буфера)
	bookings, err := uc.bookingRepo.ListByRange(ctx, domain.BookingsFilter{From: from, To: to})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrStoreUnavailable, err)
	}

	// 5. Расчёт слотов
	now := uc.timeProvider.Now()
	resp.Slots = availability.ComputeSlots(date, selection.Duration(), uc.policy, bookings, now)

	if uc.metrics != nil {
		uc.metrics.ObserveSlots(req.ServiceID, len(resp.Slots))
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%s, duration=%dm, date=%s",
		len(resp.Slots), req.ServiceID, selection.DurationMinutes, date.Format(domain.DateFormat))

	return resp, nil
}
