package get_available_slots

import "errors"

var (
	// ErrUnknownService возвращается, когда услуга не найдена в каталоге
	ErrUnknownService = errors.New("get_available_slots: unknown service")

	// ErrUnknownAddOn возвращается, когда дополнительная опция не найдена в каталоге
	ErrUnknownAddOn = errors.New("get_available_slots: unknown add-on")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrStoreUnavailable возвращается при ошибках хранилища
	ErrStoreUnavailable = errors.New("get_available_slots: store unavailable")
)
