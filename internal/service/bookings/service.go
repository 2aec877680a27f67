package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DetailingBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DetailingBooking/internal/service/bookings/models"
)

const notifyTimeout = 3 * time.Second

var validate = validator.New(validator.WithRequiredStructEnabled())

// Service сервис для просмотра и отмены бронирований
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	notifier    Notifier
	prices      PriceFormatter
	location    *time.Location
	now         func() time.Time
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	prices PriceFormatter,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifier,
		prices:      prices,
		location:    location,
		now:         time.Now,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID с названиями услуг и отформатированной ценой
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking, s.location, s.prices), nil
}

// Cancel отменяет подтверждённое бронирование. Интервал освобождается,
// запись остаётся в истории со статусом cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	if req == nil {
		req = &models.CancelBookingRequest{}
	}
	if err := validate.Struct(req); err != nil {
		s.logger.Warn("Cancel: validation failed for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.logger.Info("Cancel: cancelling booking id=%s", id)

	var cancelled *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		// Проверяем, можно ли отменить бронирование
		if !booking.CanBeCancelled() {
			return bookingRepo.ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, id, req.CancellationReason, s.now()); err != nil {
			return err
		}

		cancelled, err = s.bookingRepo.GetByID(txCtx, id)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("Cancel: booking id=%s not found", id)
		return nil, ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrCannotCancel), bookingRepo.IsSerializationFailure(err):
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled: %v", id, err)
		return nil, ErrCannotCancel
	default:
		s.logger.Error("Cancel: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", id)

	if s.notifier != nil {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := s.notifier.BookingCancelled(notifyCtx, cancelled); err != nil {
			s.logger.Warn("Cancel: failed to publish notification for booking id=%s: %v", id, err)
		}
	}

	return models.FromDomainBooking(cancelled, s.location, s.prices), nil
}
