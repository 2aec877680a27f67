package get_available_slots

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-DetailingBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	TimeZone        string          `json:"timezone"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartLocal   string    `json:"startLocal"` // "2026-10-20T09:00:00-04:00"
	EndLocal     string    `json:"endLocal"`
	StartUTC     time.Time `json:"startUtc"`
	EndUTC       time.Time `json:"endUtc"`
	DisplayLabel string    `json:"displayLabel"` // "09:00–10:30"
}

// ToUseCaseRequest формирует запрос к use case из query параметров
func ToUseCaseRequest(dateStr, serviceID, addOnIDs string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:      date,
		ServiceID: serviceID,
		AddOnIDs:  splitIDs(addOnIDs),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		start, end := slot.Local(resp.Location)
		slots[i] = AvailableSlot{
			StartLocal:   start.Format(time.RFC3339),
			EndLocal:     end.Format(time.RFC3339),
			StartUTC:     slot.Start.UTC(),
			EndUTC:       slot.End.UTC(),
			DisplayLabel: slot.Label(resp.Location),
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		TimeZone:        resp.Location.String(),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// splitIDs разбирает список "a,b,c", пустые элементы отбрасываются
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
