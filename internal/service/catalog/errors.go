package catalog

import "errors"

var (
	// ErrReloadUnavailable возвращается, если источник каталога не настроен
	ErrReloadUnavailable = errors.New("catalog reload is not configured")

	// ErrReload возвращается, если новую версию каталога не удалось загрузить
	ErrReload = errors.New("failed to reload catalog")
)
