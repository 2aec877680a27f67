package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DetailingBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DetailingBooking/pkg/ptr"
)

var base = time.Date(2026, time.October, 20, 14, 0, 0, 0, time.UTC)

func newBooking(start time.Time, minutes int) *domain.Booking {
	return &domain.Booking{
		ID:              uuid.New(),
		ServiceID:       "full-detail",
		ServiceName:     "Full Detail",
		AddOnIDs:        []string{"clay-bar"},
		AddOnNames:      []string{"Clay Bar"},
		StartAt:         start,
		EndAt:           start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		PriceCents:      26900,
		Status:          domain.StatusConfirmed,
		CustomerName:    "Jane Doe",
		CustomerPhone:   "+15550100",
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	b := newBooking(base, 90)

	created, err := s.Create(ctx, b)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, int64(26900), got.PriceCents)

	// Изменение возвращённой копии не влияет на хранилище
	got.AddOnIDs[0] = "mutated"
	again, err := s.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"clay-bar"}, again.AddOnIDs)
}

func TestStore_GetByID_NotFound(t *testing.T) {
	s := NewStore()

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestStore_ListByRange(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	early := newBooking(base, 60)
	late := newBooking(base.Add(3*time.Hour), 60)
	cancelled := newBooking(base.Add(90*time.Minute), 30)
	nextDay := newBooking(base.Add(24*time.Hour), 60)

	for _, b := range []*domain.Booking{late, early, cancelled, nextDay} {
		_, err := s.Create(ctx, b)
		require.NoError(t, err)
	}
	require.NoError(t, s.Cancel(ctx, cancelled.ID, nil, base))

	filter := domain.BookingsFilter{From: base.Add(-time.Hour), To: base.Add(8 * time.Hour)}
	got, err := s.ListByRange(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, late.ID, got[1].ID)

	filter.IncludeInactive = true
	got, err = s.ListByRange(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Интервал, касающийся бронирования, его не захватывает
	touching := domain.BookingsFilter{From: early.EndAt, To: early.EndAt.Add(30 * time.Minute)}
	got, err = s.ListByRange(ctx, touching)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Cancel(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	b := newBooking(base, 60)
	_, err := s.Create(ctx, b)
	require.NoError(t, err)

	at := base.Add(-2 * time.Hour)
	require.NoError(t, s.Cancel(ctx, b.ID, ptr.Ptr("rain"), at))

	got, err := s.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, at.Equal(*got.CancelledAt))
	assert.Equal(t, "rain", *got.CancellationReason)

	assert.ErrorIs(t, s.Cancel(ctx, b.ID, nil, at), bookingRepo.ErrCannotCancel)
	assert.ErrorIs(t, s.Cancel(ctx, uuid.New(), nil, at), bookingRepo.ErrBookingNotFound)
}

func TestStore_DoSerializable_CommitAndRollback(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	committed := newBooking(base, 60)
	err := s.DoSerializable(ctx, func(ctx context.Context) error {
		require.NoError(t, s.LockDay(ctx, "2026-10-20"))
		_, err := s.Create(ctx, committed)
		require.NoError(t, err)

		// Внутри транзакции запись видна
		inTx, err := s.GetByID(ctx, committed.ID)
		require.NoError(t, err)
		assert.Equal(t, committed.ID, inTx.ID)

		// Снаружи ещё нет
		_, err = s.GetByID(context.Background(), committed.ID)
		assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	boom := errors.New("boom")
	rolledBack := newBooking(base.Add(3*time.Hour), 60)
	err = s.DoSerializable(ctx, func(ctx context.Context) error {
		_, err := s.Create(ctx, rolledBack)
		require.NoError(t, err)
		require.NoError(t, s.Cancel(ctx, committed.ID, nil, base))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Len())

	got, err := s.GetByID(ctx, committed.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive())
}

func TestStore_CancelInsideTransactionVisibleInList(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	b := newBooking(base, 60)
	_, err := s.Create(ctx, b)
	require.NoError(t, err)

	err = s.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.Cancel(ctx, b.ID, nil, base); err != nil {
			return err
		}
		list, err := s.ListByRange(ctx, domain.BookingsFilter{From: base, To: base.Add(time.Hour)})
		require.NoError(t, err)
		assert.Empty(t, list)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_LockDayOutsideTransaction(t *testing.T) {
	s := NewStore()

	assert.ErrorIs(t, s.LockDay(context.Background(), "2026-10-20"), bookingRepo.ErrTransaction)
}

func TestStore_DoSerializableIsExclusive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.DoSerializable(ctx, func(ctx context.Context) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
