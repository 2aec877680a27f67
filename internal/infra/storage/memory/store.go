package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DetailingBooking/internal/infra/storage/booking"
)

// Store хранилище бронирований в памяти процесса.
// Возвращает те же sentinel-ошибки, что и PostgreSQL репозиторий,
// поэтому usecase и сервисы работают с обоими одинаково.
type Store struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*domain.Booking

	// commitMu сериализует транзакции (аналог advisory-блокировки дня, но на весь календарь)
	commitMu sync.Mutex
}

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{bookings: make(map[uuid.UUID]*domain.Booking)}
}

type txKey struct{}

// tx отложенные изменения, применяемые при фиксации
type tx struct {
	created   map[uuid.UUID]*domain.Booking
	cancelled map[uuid.UUID]cancellation
}

type cancellation struct {
	reason *string
	at     time.Time
}

func txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

// DoSerializable выполняет fn эксклюзивно относительно других транзакций хранилища.
// Изменения становятся видны остальным только после успешного завершения fn.
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	t := &tx{
		created:   make(map[uuid.UUID]*domain.Booking),
		cancelled: make(map[uuid.UUID]cancellation),
	}

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}

	s.commit(t)
	return nil
}

func (s *Store) commit(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, b := range t.created {
		s.bookings[id] = b
	}
	for id, c := range t.cancelled {
		if b, ok := s.bookings[id]; ok {
			applyCancel(b, c)
		}
	}
}

// Create сохраняет бронирование
func (s *Store) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: Create: %v", bookingRepo.ErrExecQuery, err)
	}

	now := time.Now().UTC()
	stored := clone(booking)
	stored.StartAt = stored.StartAt.UTC()
	stored.EndAt = stored.EndAt.UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if t := txFrom(ctx); t != nil {
		t.created[stored.ID] = stored
	} else {
		s.mu.Lock()
		s.bookings[stored.ID] = stored
		s.mu.Unlock()
	}

	booking.CreatedAt = now
	booking.UpdatedAt = now
	return booking, nil
}

// GetByID возвращает копию бронирования
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	if t := txFrom(ctx); t != nil {
		if b, ok := t.created[id]; ok {
			return t.view(b), nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if t := txFrom(ctx); t != nil {
		return t.view(b), nil
	}
	return clone(b), nil
}

// ListByRange возвращает бронирования, пересекающиеся с [From, To), по возрастанию начала
func (s *Store) ListByRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByRange: %v", bookingRepo.ErrExecQuery, err)
	}

	t := txFrom(ctx)
	result := make([]*domain.Booking, 0)

	s.mu.RLock()
	for _, b := range s.bookings {
		view := clone(b)
		if t != nil {
			view = t.view(b)
		}
		if filter.Matches(view) {
			result = append(result, view)
		}
	}
	s.mu.RUnlock()

	if t != nil {
		for _, b := range t.created {
			view := t.view(b)
			if filter.Matches(view) {
				result = append(result, view)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.Before(result[j].StartAt)
	})

	return result, nil
}

// LockDay в памяти транзакции уже сериализованы целиком, поэтому достаточно
// проверить, что вызов сделан внутри DoSerializable
func (s *Store) LockDay(ctx context.Context, day string) error {
	if txFrom(ctx) == nil {
		return fmt.Errorf("%w: LockDay requires an active transaction", bookingRepo.ErrTransaction)
	}
	return nil
}

// Cancel переводит подтверждённое бронирование в статус cancelled
func (s *Store) Cancel(ctx context.Context, id uuid.UUID, reason *string, cancelledAt time.Time) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.CanBeCancelled() {
		return bookingRepo.ErrCannotCancel
	}

	c := cancellation{reason: reason, at: cancelledAt.UTC()}

	if t := txFrom(ctx); t != nil {
		if created, ok := t.created[id]; ok {
			applyCancel(created, c)
			return nil
		}
		t.cancelled[id] = c
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	// Повторная проверка под блокировкой записи
	if !b.CanBeCancelled() {
		return bookingRepo.ErrCannotCancel
	}
	applyCancel(b, c)
	return nil
}

// Len количество сохранённых бронирований
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

// view копия бронирования с учётом отложенной отмены в транзакции
func (t *tx) view(b *domain.Booking) *domain.Booking {
	out := clone(b)
	if c, ok := t.cancelled[b.ID]; ok {
		applyCancel(out, c)
	}
	return out
}

func applyCancel(b *domain.Booking, c cancellation) {
	at := c.at
	b.Status = domain.StatusCancelled
	b.CancellationReason = c.reason
	b.CancelledAt = &at
	b.UpdatedAt = at
}

func clone(b *domain.Booking) *domain.Booking {
	out := *b
	out.AddOnIDs = append([]string(nil), b.AddOnIDs...)
	out.AddOnNames = append([]string(nil), b.AddOnNames...)
	return &out
}
