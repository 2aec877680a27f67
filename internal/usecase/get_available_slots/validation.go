package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DetailingBooking/internal/catalog"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// mapCatalogError переводит ошибки каталога в ошибки usecase
func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrUnknownService):
		return fmt.Errorf("%w: %v", ErrUnknownService, err)
	case errors.Is(err, catalog.ErrUnknownAddOn):
		return fmt.Errorf("%w: %v", ErrUnknownAddOn, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}
