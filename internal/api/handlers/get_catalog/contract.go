package get_catalog

import (
	"github.com/m04kA/SMC-DetailingBooking/internal/service/catalog/models"
)

type CatalogService interface {
	Get() *models.CatalogResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
