package create_booking

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-DetailingBooking/internal/availability"
	"github.com/m04kA/SMC-DetailingBooking/internal/catalog"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
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

// mapSlotError переводит причину отказа календаря в ErrInvalidSlot (или ErrInvalidInput)
func mapSlotError(err error) error {
	if errors.Is(err, availability.ErrInvalidDuration) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidSlot, err)
}
