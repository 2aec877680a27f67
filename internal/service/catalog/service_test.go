package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogpkg "github.com/m04kA/SMC-DetailingBooking/internal/catalog"
	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	"github.com/m04kA/SMC-DetailingBooking/pkg/logger"
	"github.com/m04kA/SMC-DetailingBooking/pkg/money"
)

func mustCatalog(t *testing.T, servicePrice int64) *catalogpkg.Catalog {
	t.Helper()

	c, err := catalogpkg.New(
		[]domain.Service{
			{ID: "express-wash", Name: "Express Wash", DurationMinutes: 30, PriceCents: servicePrice},
			{ID: "full-detail", Name: "Full Detail", DurationMinutes: 180, PriceCents: 24900},
		},
		[]domain.AddOn{
			{ID: "clay-bar", Name: "Clay Bar", DurationMinutes: 30, PriceCents: 4000},
		},
	)
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T, loader Loader) (*Service, *catalogpkg.Holder) {
	t.Helper()

	prices, err := money.NewFormatter("USD", "en-US")
	require.NoError(t, err)

	policy := &domain.CalendarPolicy{
		Location:        time.UTC,
		SlotGranularity: 30 * time.Minute,
	}
	holder := catalogpkg.NewHolder(mustCatalog(t, 2500))

	return NewService(holder, loader, policy, prices, logger.NewNop()), holder
}

func TestService_Get(t *testing.T) {
	svc, _ := newTestService(t, nil)

	resp := svc.Get()

	require.Len(t, resp.Services, 2)
	assert.Equal(t, "express-wash", resp.Services[0].ID)
	assert.Equal(t, "full-detail", resp.Services[1].ID)
	assert.Contains(t, resp.Services[0].PriceFormatted, "25.00")
	require.Len(t, resp.AddOns, 1)
	assert.Equal(t, 30, resp.AddOns[0].DurationMinutes)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "UTC", resp.TimeZone)
	assert.Equal(t, 30, resp.SlotGranularityMinutes)
}

func TestService_Reload(t *testing.T) {
	var next *catalogpkg.Catalog
	svc, holder := newTestService(t, func() (*catalogpkg.Catalog, error) { return next, nil })
	next = mustCatalog(t, 3000)

	require.NoError(t, svc.Reload())

	assert.Same(t, next, holder.Current())
	assert.Contains(t, svc.Get().Services[0].PriceFormatted, "30.00")
}

func TestService_Reload_FailureKeepsCurrent(t *testing.T) {
	svc, holder := newTestService(t, func() (*catalogpkg.Catalog, error) {
		return nil, errors.New("bad toml")
	})
	before := holder.Current()

	err := svc.Reload()

	assert.ErrorIs(t, err, ErrReload)
	assert.Same(t, before, holder.Current())
}

func TestService_Reload_NotConfigured(t *testing.T) {
	svc, _ := newTestService(t, nil)

	assert.ErrorIs(t, svc.Reload(), ErrReloadUnavailable)
}
