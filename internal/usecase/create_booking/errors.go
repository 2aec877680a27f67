package create_booking

import "errors"

var (
	// ErrUnknownService возвращается, когда услуга не найдена в каталоге
	ErrUnknownService = errors.New("create_booking: unknown service")

	// ErrUnknownAddOn возвращается, когда дополнительная опция не найдена в каталоге
	ErrUnknownAddOn = errors.New("create_booking: unknown add-on")

	// ErrInvalidSlot возвращается, когда время не подходит по правилам календаря
	// (выходной, вне рабочих часов, не по сетке, раньше минимального времени до записи)
	ErrInvalidSlot = errors.New("create_booking: invalid slot")

	// ErrSlotNoLongerAvailable возвращается, когда интервал уже занят другим бронированием
	ErrSlotNoLongerAvailable = errors.New("create_booking: slot is no longer available")

	// ErrStoreUnavailable возвращается при ошибках хранилища
	ErrStoreUnavailable = errors.New("create_booking: store unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")
)

// Исходы бронирования для метрик
const (
	OutcomeConfirmed        = "confirmed"
	OutcomeConflict         = "conflict"
	OutcomeInvalidSlot      = "invalid_slot"
	OutcomeUnknownService   = "unknown_service"
	OutcomeUnknownAddOn     = "unknown_add_on"
	OutcomeInvalidInput     = "invalid_input"
	OutcomeStoreUnavailable = "store_unavailable"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeConfirmed
	case errors.Is(err, ErrSlotNoLongerAvailable):
		return OutcomeConflict
	case errors.Is(err, ErrInvalidSlot):
		return OutcomeInvalidSlot
	case errors.Is(err, ErrUnknownService):
		return OutcomeUnknownService
	case errors.Is(err, ErrUnknownAddOn):
		return OutcomeUnknownAddOn
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	default:
		return OutcomeStoreUnavailable
	}
}
