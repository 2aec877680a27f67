package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-DetailingBooking/internal/usecase/get_available_slots"
)

const (
	msgMissingServiceID = "ID услуги обязателен"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidParams    = "некорректные параметры запроса"
	msgServiceNotFound  = "услуга не найдена"
	msgAddOnNotFound    = "дополнительная опция не найдена"
	msgStoreUnavailable = "сервис бронирования временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), serviceId (required), addOnIds (optional, через запятую)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceID := query.Get("serviceId")
	if serviceID == "" {
		h.logger.Warn("GET /availability - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, serviceID, query.Get("addOnIds"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrUnknownService):
			h.logger.Warn("GET /availability - Service not found: service_id=%s", serviceID)
			handlers.RespondErrorCode(w, http.StatusNotFound, handlers.CodeUnknownService, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrUnknownAddOn):
			h.logger.Warn("GET /availability - Add-on not found: service_id=%s, add_ons=%v", serviceID, useCaseReq.AddOnIDs)
			handlers.RespondErrorCode(w, http.StatusNotFound, handlers.CodeUnknownAddOn, msgAddOnNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid params: %v", err)
			handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeInvalidInput, msgInvalidParams)

		case errors.Is(err, getAvailableSlots.ErrStoreUnavailable):
			h.logger.Error("GET /availability - Store unavailable: date=%s, error=%v", dateStr, err)
			handlers.RespondErrorCode(w, http.StatusServiceUnavailable, handlers.CodeStoreUnavailable, msgStoreUnavailable)

		default:
			h.logger.Error("GET /availability - Failed to get slots: date=%s, service_id=%s, error=%v",
				dateStr, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /availability - Slots retrieved successfully: date=%s, service_id=%s, slots_count=%d",
		dateStr, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
