package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingBooking/internal/availability"
	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DetailingBooking/internal/infra/storage/booking"
)

// notifyTimeout ограничение на публикацию события после фиксации
const notifyTimeout = 3 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      CatalogProvider
	policy       *domain.CalendarPolicy
	txManager    TransactionManager
	notifier     Notifier
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog CatalogProvider,
	policy *domain.CalendarPolicy,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		policy:       policy,
		txManager:    txManager,
		notifier:     notifier,
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

// Execute выполняет use case создания бронирования.
//
// Правила календаря проверяются до транзакции. Проверка пересечений и запись
// выполняются в одной сериализуемой транзакции под блокировкой дня, поэтому из
// нескольких параллельных попыток занять один интервал успешна ровно одна.
// Ранее полученный клиентом список слотов не считается гарантией.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	if uc.metrics != nil {
		uc.metrics.ObserveReservation(outcomeOf(err))
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: service=%s, addOns=%v, start=%s",
		req.ServiceID, req.AddOnIDs, req.StartAt.UTC().Format(time.RFC3339))

	// 2. Услуга и опции из каталога, суммарные длительность и цена
	selection, err := uc.catalog.Current().Resolve(req.ServiceID, req.AddOnIDs)
	if err != nil {
		uc.logger.Warn("CreateBooking: catalog lookup failed: %v", err)
		return nil, mapCatalogError(err)
	}

	now := uc.timeProvider.Now()
	start := req.StartAt.UTC()
	duration := selection.Duration()
	end := start.Add(duration)

	// 3. Правила календаря: рабочий день, часы, сетка, горизонт, минимальное время до записи
	if err := availability.CheckStart(start, duration, uc.policy, now); err != nil {
		uc.logger.Warn("CreateBooking: start %s rejected: %v", start.Format(time.RFC3339), err)
		return nil, mapSlotError(err)
	}

	day := uc.policy.DayOf(start).Format(domain.DateFormat)

	var result *domain.Booking

	// 4. Проверка пересечений и запись в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокируем календарный день
		if err := uc.bookingRepo.LockDay(txCtx, day); err != nil {
			return fmt.Errorf("%w: failed to lock day %s: %w", ErrStoreUnavailable, day, err)
		}

		// 4.2. Актуальные бронирования вокруг интервала (с учётом буфера)
		from, to := availability.SearchWindow(start, end, uc.policy.Buffer)
		bookings, err := uc.bookingRepo.ListByRange(txCtx, domain.BookingsFilter{From: from, To: to})
		if err != nil {
			return fmt.Errorf("%w: failed to list bookings: %w", ErrStoreUnavailable, err)
		}

		// 4.3. Повторная проверка пересечений
		if conflict := availability.FirstConflict(start, end, bookings, uc.policy.Buffer); conflict != nil {
			uc.logger.Info("CreateBooking: interval %s-%s conflicts with booking %s",
				start.Format(time.RFC3339), end.Format(time.RFC3339), conflict.ID)
			return ErrSlotNoLongerAvailable
		}

		// 4.4. Создаём бронирование с денормализацией каталога
		booking := &domain.Booking{
			ID:              uuid.New(),
			ServiceID:       selection.Service.ID,
			ServiceName:     selection.Service.Name,
			AddOnIDs:        selection.AddOnIDs(),
			AddOnNames:      selection.AddOnNames(),
			StartAt:         start,
			EndAt:           end,
			DurationMinutes: selection.DurationMinutes,
			PriceCents:      selection.PriceCents,
			Status:          domain.StatusConfirmed,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			VehicleInfo:     req.VehicleInfo,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrStoreUnavailable, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(err)
	}

	uc.logger.Info("CreateBooking: created booking id=%s, %s-%s, price=%d",
		result.ID, result.StartAt.Format(time.RFC3339), result.EndAt.Format(time.RFC3339), result.PriceCents)

	// 5. Уведомления после фиксации, ошибка не отменяет бронирование
	uc.notify(ctx, result)

	return toResponse(result), nil
}

// mapTxError приводит ошибку транзакции к типизированному отказу
func (uc *UseCase) mapTxError(err error) error {
	switch {
	case errors.Is(err, ErrSlotNoLongerAvailable):
		return err
	case bookingRepo.IsSerializationFailure(err):
		// Параллельная транзакция зафиксировала пересекающуюся запись раньше
		uc.logger.Info("CreateBooking: serialization conflict: %v", err)
		return fmt.Errorf("%w: concurrent reservation won", ErrSlotNoLongerAvailable)
	case errors.Is(err, ErrStoreUnavailable):
		uc.logger.Error("CreateBooking: %v", err)
		return err
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func (uc *UseCase) notify(ctx context.Context, booking *domain.Booking) {
	if uc.notifier == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := uc.notifier.BookingConfirmed(notifyCtx, booking); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish notification for booking %s: %v", booking.ID, err)
	}
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		ServiceName:     b.ServiceName,
		AddOnIDs:        b.AddOnIDs,
		AddOnNames:      b.AddOnNames,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt,
		DurationMinutes: b.DurationMinutes,
		PriceCents:      b.PriceCents,
		Status:          string(b.Status),
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CustomerEmail:   b.CustomerEmail,
		VehicleInfo:     b.VehicleInfo,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
	}
}
