package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date      time.Time // Календарная дата (используются только год, месяц и день)
	ServiceID string
	AddOnIDs  []string
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time      // Дата в часовом поясе бизнеса (полночь)
	Location        *time.Location // Часовой пояс бизнеса
	DurationMinutes int            // Суммарная длительность услуги и опций
	Slots           []domain.TimeSlot
}
