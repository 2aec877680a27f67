package catalog

import "errors"

var (
	// ErrUnknownService возвращается, когда услуга не найдена в каталоге
	ErrUnknownService = errors.New("catalog: unknown service")

	// ErrUnknownAddOn возвращается, когда дополнительная опция не найдена в каталоге
	ErrUnknownAddOn = errors.New("catalog: unknown add-on")

	// ErrDuplicateAddOn возвращается, если опция указана в запросе дважды
	ErrDuplicateAddOn = errors.New("catalog: duplicate add-on")

	// ErrInvalidCatalog возвращается при некорректных данных каталога
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")
)
