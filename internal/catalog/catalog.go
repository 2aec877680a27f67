package catalog

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Catalog неизменяемый справочник услуг и опций
type Catalog struct {
	services map[string]domain.Service
	addOns   map[string]domain.AddOn

	// порядок из конфигурации, чтобы UI показывал услуги стабильно
	serviceOrder []string
	addOnOrder   []string
}

// New создаёт каталог и проверяет уникальность ID и корректность длительностей и цен
func New(services []domain.Service, addOns []domain.AddOn) (*Catalog, error) {
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidCatalog)
	}

	c := &Catalog{
		services: make(map[string]domain.Service, len(services)),
		addOns:   make(map[string]domain.AddOn, len(addOns)),
	}

	for _, s := range services {
		if err := validate.Struct(s); err != nil {
			return nil, fmt.Errorf("%w: service %q: %v", ErrInvalidCatalog, s.ID, err)
		}
		if _, exists := c.services[s.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate service id %q", ErrInvalidCatalog, s.ID)
		}
		c.services[s.ID] = s
		c.serviceOrder = append(c.serviceOrder, s.ID)
	}

	for _, a := range addOns {
		if err := validate.Struct(a); err != nil {
			return nil, fmt.Errorf("%w: add-on %q: %v", ErrInvalidCatalog, a.ID, err)
		}
		if _, exists := c.addOns[a.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate add-on id %q", ErrInvalidCatalog, a.ID)
		}
		c.addOns[a.ID] = a
		c.addOnOrder = append(c.addOnOrder, a.ID)
	}

	return c, nil
}

// Service возвращает услугу по ID
func (c *Catalog) Service(id string) (domain.Service, bool) {
	s, ok := c.services[id]
	return s, ok
}

// AddOn возвращает опцию по ID
func (c *Catalog) AddOn(id string) (domain.AddOn, bool) {
	a, ok := c.addOns[id]
	return a, ok
}

// Services возвращает услуги в порядке конфигурации
func (c *Catalog) Services() []domain.Service {
	out := make([]domain.Service, 0, len(c.serviceOrder))
	for _, id := range c.serviceOrder {
		out = append(out, c.services[id])
	}
	return out
}

// AddOns возвращает опции в порядке конфигурации
func (c *Catalog) AddOns() []domain.AddOn {
	out := make([]domain.AddOn, 0, len(c.addOnOrder))
	for _, id := range c.addOnOrder {
		out = append(out, c.addOns[id])
	}
	return out
}

// Selection выбранная услуга с опциями и рассчитанными длительностью и ценой
type Selection struct {
	Service         domain.Service
	AddOns          []domain.AddOn
	DurationMinutes int
	PriceCents      int64
}

// Duration общая длительность работ
func (s *Selection) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// AddOnIDs ID опций в порядке запроса
func (s *Selection) AddOnIDs() []string {
	ids := make([]string, len(s.AddOns))
	for i, a := range s.AddOns {
		ids[i] = a.ID
	}
	return ids
}

// AddOnNames названия опций в порядке запроса
func (s *Selection) AddOnNames() []string {
	names := make([]string, len(s.AddOns))
	for i, a := range s.AddOns {
		names[i] = a.Name
	}
	return names
}

// Resolve находит услугу и опции и суммирует длительность и цену
func (c *Catalog) Resolve(serviceID string, addOnIDs []string) (*Selection, error) {
	service, ok := c.services[serviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, serviceID)
	}

	sel := &Selection{
		Service:         service,
		AddOns:          make([]domain.AddOn, 0, len(addOnIDs)),
		DurationMinutes: service.DurationMinutes,
		PriceCents:      service.PriceCents,
	}

	seen := make(map[string]struct{}, len(addOnIDs))
	for _, id := range addOnIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAddOn, id)
		}
		seen[id] = struct{}{}

		addOn, ok := c.addOns[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAddOn, id)
		}
		sel.AddOns = append(sel.AddOns, addOn)
		sel.DurationMinutes += addOn.DurationMinutes
		sel.PriceCents += addOn.PriceCents
	}

	return sel, nil
}

// Holder хранит текущую версию каталога и позволяет атомарно заменить её
// (перечитывание конфигурации по SIGHUP). Уже созданные бронирования хранят
// цену и названия отдельно и от замены каталога не меняются.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder создаёт Holder с начальной версией каталога
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Current возвращает актуальный каталог
func (h *Holder) Current() *Catalog {
	return h.current.Load()
}

// Swap заменяет каталог
func (h *Holder) Swap(c *Catalog) {
	h.current.Store(c)
}
