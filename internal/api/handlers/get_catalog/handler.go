package get_catalog

import (
	"net/http"

	"github.com/m04kA/SMC-DetailingBooking/internal/api/handlers"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/catalog
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	catalog := h.service.Get()

	h.logger.Info("GET /catalog - Catalog retrieved successfully: services=%d, add_ons=%d",
		len(catalog.Services), len(catalog.AddOns))
	handlers.RespondJSON(w, http.StatusOK, catalog)
}
