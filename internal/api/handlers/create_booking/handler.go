package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingBooking/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingBooking/internal/availability"
	createBooking "github.com/m04kA/SMC-DetailingBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidStartAt        = "некорректный формат времени начала, ожидается RFC 3339"
	msgInvalidInput          = "некорректные данные бронирования"
	msgServiceNotFound       = "услуга не найдена"
	msgAddOnNotFound         = "дополнительная опция не найдена"
	msgSlotNoLongerAvailable = "выбранное время уже занято, пожалуйста, выберите другое время"
	msgStoreUnavailable      = "сервис бронирования временно недоступен, попробуйте позже"
	msgDayClosed             = "в выбранный день мы не работаем"
	msgBeyondHorizon         = "дата бронирования слишком далеко в будущем"
	msgOutsideHours          = "выбранное время выходит за рамки рабочих часов"
	msgMisaligned            = "некорректное время начала, выберите время из списка слотов"
	msgLeadTime              = "слишком поздно для бронирования этого времени"
	msgInvalidSlot           = "некорректный временной слот"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse startAt=%q: %v", req.StartAt, err)
		handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeInvalidInput, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /bookings - Slot no longer available: service_id=%s, start=%s", req.ServiceID, req.StartAt)
			handlers.RespondErrorCode(w, http.StatusConflict, handlers.CodeSlotNoLongerAvailable, msgSlotNoLongerAvailable)

		case errors.Is(err, createBooking.ErrUnknownService):
			h.logger.Warn("POST /bookings - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondErrorCode(w, http.StatusNotFound, handlers.CodeUnknownService, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrUnknownAddOn):
			h.logger.Warn("POST /bookings - Add-on not found: add_ons=%v", req.AddOnIDs)
			handlers.RespondErrorCode(w, http.StatusNotFound, handlers.CodeUnknownAddOn, msgAddOnNotFound)

		case errors.Is(err, createBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: service_id=%s, start=%s: %v", req.ServiceID, req.StartAt, err)
			handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeInvalidSlot, invalidSlotMessage(err))

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeInvalidInput, msgInvalidInput)

		case errors.Is(err, createBooking.ErrStoreUnavailable):
			h.logger.Error("POST /bookings - Store unavailable: service_id=%s, error=%v", req.ServiceID, err)
			handlers.RespondErrorCode(w, http.StatusServiceUnavailable, handlers.CodeStoreUnavailable, msgStoreUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service_id=%s, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, service_id=%s, start=%s",
		result.ID, result.ServiceID, result.StartAt.Format("2006-01-02T15:04Z07:00"))
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// invalidSlotMessage уточняет причину отказа календаря для клиента
func invalidSlotMessage(err error) string {
	switch {
	case errors.Is(err, availability.ErrDayClosed):
		return msgDayClosed
	case errors.Is(err, availability.ErrBeyondHorizon):
		return msgBeyondHorizon
	case errors.Is(err, availability.ErrOutsideHours):
		return msgOutsideHours
	case errors.Is(err, availability.ErrMisaligned):
		return msgMisaligned
	case errors.Is(err, availability.ErrLeadTime):
		return msgLeadTime
	default:
		return msgInvalidSlot
	}
}
