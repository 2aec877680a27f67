package catalog

import (
	catalogpkg "github.com/m04kA/SMC-DetailingBooking/internal/catalog"
)

// CatalogHolder хранилище текущей версии каталога
type CatalogHolder interface {
	Current() *catalogpkg.Catalog
	Swap(c *catalogpkg.Catalog)
}

// Loader загружает свежую версию каталога (например, перечитывает файл конфигурации)
type Loader func() (*catalogpkg.Catalog, error)

// PriceFormatter форматирование цен в валюте бизнеса
type PriceFormatter interface {
	Format(minorUnits int64) string
	Code() string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
