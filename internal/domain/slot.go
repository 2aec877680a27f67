package domain

import "time"

// TimeSlot свободное окно, рассчитанное движком доступности. Не резервируется.
// Start и End в UTC и являются контрактом для бронирования; локальное
// представление нужно только для отображения.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// Duration длительность слота
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Local возвращает начало и конец слота в часовом поясе бизнеса
func (s TimeSlot) Local(loc *time.Location) (time.Time, time.Time) {
	return s.Start.In(loc), s.End.In(loc)
}

// Label подпись вида "09:00–10:30" в локальном времени
func (s TimeSlot) Label(loc *time.Location) string {
	start, end := s.Local(loc)
	return start.Format(TimeFormat) + "–" + end.Format(TimeFormat)
}
