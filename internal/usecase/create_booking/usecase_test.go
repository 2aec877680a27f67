package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingBooking/internal/availability"
	"github.com/m04kA/SMC-DetailingBooking/internal/catalog"
	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	"github.com/m04kA/SMC-DetailingBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-DetailingBooking/pkg/logger"
	"github.com/m04kA/SMC-DetailingBooking/pkg/ptr"
	"github.com/m04kA/SMC-DetailingBooking/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type recordingNotifier struct {
	mu     sync.Mutex
	events []*domain.Booking
	err    error
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b *domain.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, b)
	return n.err
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *recordingMetrics) ObserveReservation(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

type fixture struct {
	loc      *time.Location
	policy   *domain.CalendarPolicy
	catalog  *catalog.Holder
	store    *memory.Store
	notifier *recordingNotifier
	metrics  *recordingMetrics
	now      time.Time
	uc       *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	policy := &domain.CalendarPolicy{
		Location:           loc,
		SlotGranularity:    30 * time.Minute,
		Buffer:             15 * time.Minute,
		MinLeadTime:        2 * time.Hour,
		AdvanceBookingDays: 60,
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd == time.Sunday {
			policy.Hours[wd] = domain.DayHours{Closed: true}
			continue
		}
		policy.Hours[wd] = domain.DayHours{Open: types.TimeString("09:00"), Close: types.TimeString("17:00")}
	}
	require.NoError(t, policy.Validate())

	c, err := catalog.New(
		[]domain.Service{
			{ID: "full-detail", Name: "Full Detail", DurationMinutes: 60, PriceCents: 15000},
			{ID: "express-wash", Name: "Express Wash", DurationMinutes: 30, PriceCents: 4900},
		},
		[]domain.AddOn{
			{ID: "clay-bar", Name: "Clay Bar", DurationMinutes: 30, PriceCents: 4000},
			{ID: "air-freshener", Name: "Air Freshener", DurationMinutes: 0, PriceCents: 500},
		},
	)
	require.NoError(t, err)

	f := &fixture{
		loc:      loc,
		policy:   policy,
		catalog:  catalog.NewHolder(c),
		store:    memory.NewStore(),
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{},
		now:      time.Date(2026, time.October, 19, 8, 0, 0, 0, loc),
	}
	f.uc = NewUseCase(f.store, f.catalog, policy, f.store, f.notifier, f.metrics, logger.NewNop()).
		WithTimeProvider(fixedTime{now: f.now})
	return f
}

func (f *fixture) at(day, hh, mm int) time.Time {
	return time.Date(2026, time.October, day, hh, mm, 0, 0, f.loc)
}

func request(start time.Time, addOns ...string) *Request {
	return &Request{
		ServiceID:     "full-detail",
		AddOnIDs:      addOns,
		StartAt:       start.UTC(),
		CustomerName:  "Jane Doe",
		CustomerPhone: "+15550100",
		CustomerEmail: ptr.Ptr("jane@example.com"),
		VehicleInfo:   ptr.Ptr("2019 Honda Civic"),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	start := f.at(20, 10, 0)

	resp, err := f.uc.Execute(context.Background(), request(start, "clay-bar", "air-freshener"))
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, int64(19500), resp.PriceCents)
	assert.True(t, start.Equal(resp.StartAt))
	assert.True(t, start.Add(90*time.Minute).Equal(resp.EndAt))
	assert.Equal(t, time.UTC, resp.StartAt.Location())
	assert.Equal(t, []string{"Clay Bar", "Air Freshener"}, resp.AddOnNames)

	stored, err := f.store.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, "Full Detail", stored.ServiceName)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, resp.ID, f.notifier.events[0].ID)
	assert.Equal(t, 1, f.metrics.outcomes[OutcomeConfirmed])
}

func TestExecute_Rejections(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{name: "unknown service", mutate: func(r *Request) { r.ServiceID = "ceramic" }, wantErr: ErrUnknownService},
		{name: "unknown add-on", mutate: func(r *Request) { r.AddOnIDs = []string{"wax"} }, wantErr: ErrUnknownAddOn},
		{name: "duplicate add-on", mutate: func(r *Request) { r.AddOnIDs = []string{"clay-bar", "clay-bar"} }, wantErr: ErrInvalidInput},
		{name: "missing name", mutate: func(r *Request) { r.CustomerName = "" }, wantErr: ErrInvalidInput},
		{name: "bad email", mutate: func(r *Request) { r.CustomerEmail = ptr.Ptr("not-an-email") }, wantErr: ErrInvalidInput},
		{name: "missing start", mutate: func(r *Request) { r.StartAt = time.Time{} }, wantErr: ErrInvalidInput},
		{name: "sunday", mutate: func(r *Request) { r.StartAt = f.at(25, 10, 0).UTC() }, wantErr: ErrInvalidSlot},
		{name: "before opening", mutate: func(r *Request) { r.StartAt = f.at(20, 8, 30).UTC() }, wantErr: ErrInvalidSlot},
		{name: "past close", mutate: func(r *Request) { r.StartAt = f.at(20, 16, 30).UTC() }, wantErr: ErrInvalidSlot},
		{name: "off grid", mutate: func(r *Request) { r.StartAt = f.at(20, 10, 15).UTC() }, wantErr: ErrInvalidSlot},
		{name: "lead time", mutate: func(r *Request) { r.StartAt = f.at(19, 9, 30).UTC() }, wantErr: ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(f.at(20, 10, 0))
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.notifier.events)
}

func TestExecute_NilRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConflictWithBuffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(f.at(20, 10, 0), "clay-bar")) // 10:00-11:30
	require.NoError(t, err)

	// 11:30 касается конца, но попадает в буфер 15 минут
	_, err = f.uc.Execute(ctx, request(f.at(20, 11, 30)))
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	// 09:00-10:00 заканчивается внутри буфера 09:45
	_, err = f.uc.Execute(ctx, request(f.at(20, 9, 0)))
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	_, err = f.uc.Execute(ctx, request(f.at(20, 12, 0)))
	assert.NoError(t, err)

	assert.Equal(t, 2, f.store.Len())
	assert.Equal(t, 2, f.metrics.outcomes[OutcomeConflict])
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, request(f.at(20, 10, 0)))
	require.NoError(t, err)
	require.NoError(t, f.store.Cancel(ctx, first.ID, nil, f.now))

	_, err = f.uc.Execute(ctx, request(f.at(20, 10, 0)))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentAttemptsExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	const attempts = 25

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)

	startGate := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-startGate
			_, err := f.uc.Execute(context.Background(), request(f.at(20, 10, 0), "clay-bar"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotNoLongerAvailable):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(startGate)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Empty(t, others)
	assert.Equal(t, 1, f.store.Len())
}

func TestExecute_TwoConcurrentRequestsForSameWindow(t *testing.T) {
	f := newFixture(t)
	results := make(chan error, 2)

	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.uc.Execute(context.Background(), request(f.at(20, 10, 0), "clay-bar"))
			results <- err
		}()
	}

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			errs = append(errs, err)
		}
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrSlotNoLongerAvailable)
}

// Каждый слот, выданный движком, бронируется успешно
func TestExecute_NoFalsePositives(t *testing.T) {
	base := newFixture(t)
	ctx := context.Background()

	_, err := base.uc.Execute(ctx, request(base.at(20, 12, 0), "clay-bar"))
	require.NoError(t, err)
	existing, err := base.store.ListByRange(ctx, domain.BookingsFilter{From: base.at(20, 0, 0), To: base.at(21, 0, 0)})
	require.NoError(t, err)

	sel, err := base.catalog.Current().Resolve("full-detail", nil)
	require.NoError(t, err)

	slots := availability.ComputeSlots(base.at(20, 0, 0), sel.Duration(), base.policy, existing, base.now)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		f := newFixture(t)
		for _, b := range existing {
			_, err := f.store.Create(ctx, b)
			require.NoError(t, err)
		}

		_, err := f.uc.Execute(ctx, request(slot.Start))
		assert.NoError(t, err, "slot %s", slot.Label(f.loc))
	}
}

func TestExecute_PriceFrozenAfterCatalogChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, request(f.at(20, 10, 0)))
	require.NoError(t, err)
	assert.Equal(t, int64(15000), resp.PriceCents)

	updated, err := catalog.New(
		[]domain.Service{{ID: "full-detail", Name: "Full Detail Deluxe", DurationMinutes: 90, PriceCents: 99900}},
		nil,
	)
	require.NoError(t, err)
	f.catalog.Swap(updated)

	stored, err := f.store.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), stored.PriceCents)
	assert.Equal(t, 60, stored.DurationMinutes)
	assert.Equal(t, "Full Detail", stored.ServiceName)
}

func TestExecute_NotifierFailureKeepsBooking(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("redis down")

	resp, err := f.uc.Execute(context.Background(), request(f.at(20, 10, 0)))
	require.NoError(t, err)

	stored, err := f.store.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
}

type passthroughTx struct{ err error }

func (p passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return p.err
}

type failingRepo struct {
	listErr   error
	createErr error
}

func (r failingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	return b, r.createErr
}

func (r failingRepo) ListByRange(context.Context, domain.BookingsFilter) ([]*domain.Booking, error) {
	return nil, r.listErr
}

func (r failingRepo) LockDay(context.Context, string) error { return nil }

func TestExecute_StoreErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		repo    failingRepo
		tx      passthroughTx
		wantErr error
	}{
		{name: "list fails", repo: failingRepo{listErr: errors.New("connection refused")}, wantErr: ErrStoreUnavailable},
		{name: "insert fails", repo: failingRepo{createErr: errors.New("disk full")}, wantErr: ErrStoreUnavailable},
		{name: "insert serialization failure", repo: failingRepo{createErr: &pq.Error{Code: "40001"}}, wantErr: ErrSlotNoLongerAvailable},
		{name: "commit serialization failure", tx: passthroughTx{err: &pq.Error{Code: "40001"}}, wantErr: ErrSlotNoLongerAvailable},
		{name: "commit fails", tx: passthroughTx{err: errors.New("connection reset")}, wantErr: ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(tt.repo, f.catalog, f.policy, tt.tx, f.notifier, f.metrics, logger.NewNop()).
				WithTimeProvider(fixedTime{now: f.now})

			_, err := uc.Execute(context.Background(), request(f.at(20, 10, 0)))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeConfirmed, outcomeOf(nil))
	assert.Equal(t, OutcomeConflict, outcomeOf(ErrSlotNoLongerAvailable))
	assert.Equal(t, OutcomeStoreUnavailable, outcomeOf(errors.New("x")))
}
