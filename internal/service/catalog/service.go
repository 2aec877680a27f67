package catalog

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	"github.com/m04kA/SMC-DetailingBooking/internal/service/catalog/models"
)

// Service сервис публичного каталога услуг
type Service struct {
	holder CatalogHolder
	loader Loader
	policy *domain.CalendarPolicy
	prices PriceFormatter
	logger Logger
}

// NewService создает новый экземпляр сервиса каталога.
// loader может быть nil, тогда Reload недоступен.
func NewService(
	holder CatalogHolder,
	loader Loader,
	policy *domain.CalendarPolicy,
	prices PriceFormatter,
	logger Logger,
) *Service {
	return &Service{
		holder: holder,
		loader: loader,
		policy: policy,
		prices: prices,
		logger: logger,
	}
}

// Get возвращает текущую версию каталога с отформатированными ценами
func (s *Service) Get() *models.CatalogResponse {
	current := s.holder.Current()

	services := current.Services()
	addOns := current.AddOns()

	resp := &models.CatalogResponse{
		Services:               make([]models.ItemResponse, 0, len(services)),
		AddOns:                 make([]models.ItemResponse, 0, len(addOns)),
		Currency:               s.prices.Code(),
		TimeZone:               s.policy.Location.String(),
		SlotGranularityMinutes: int(s.policy.SlotGranularity / time.Minute),
	}

	for _, svc := range services {
		resp.Services = append(resp.Services, s.item(svc.ID, svc.Name, svc.DurationMinutes, svc.PriceCents))
	}
	for _, a := range addOns {
		resp.AddOns = append(resp.AddOns, s.item(a.ID, a.Name, a.DurationMinutes, a.PriceCents))
	}

	return resp
}

// Reload загружает новую версию каталога и атомарно подменяет текущую.
// Уже созданные бронирования сохраняют зафиксированные цену и длительность.
func (s *Service) Reload() error {
	if s.loader == nil {
		return ErrReloadUnavailable
	}

	next, err := s.loader()
	if err != nil {
		s.logger.Error("Reload: failed to load catalog: %v", err)
		return fmt.Errorf("%w: %v", ErrReload, err)
	}

	s.holder.Swap(next)
	s.logger.Info("Reload: catalog reloaded, services=%d, add-ons=%d",
		len(next.Services()), len(next.AddOns()))
	return nil
}

func (s *Service) item(id, name string, minutes int, price int64) models.ItemResponse {
	return models.ItemResponse{
		ID:              id,
		Name:            name,
		DurationMinutes: minutes,
		PriceCents:      price,
		PriceFormatted:  s.prices.Format(price),
	}
}
