package availability

import (
	"time"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
)

// ComputeSlots рассчитывает свободные окна на дату для работ заданной длительности.
//
// Год, месяц и день берутся из date, рабочее окно строится в часовом поясе политики.
// Кандидаты идут с шагом SlotGranularity от открытия (или от now + MinLeadTime,
// округлённого вверх до ближайшей границы сетки). Слот, заканчивающийся ровно
// в момент закрытия, допустим. Кандидат отбрасывается, если пересекается с любым
// подтверждённым бронированием, расширенным на Buffer с обеих сторон.
// Касание интервалов пересечением не считается.
//
// Пустой результат (выходной, нерабочий день, дата за горизонтом, день уже прошёл)
// не является ошибкой.
func ComputeSlots(
	date time.Time,
	duration time.Duration,
	policy *domain.CalendarPolicy,
	bookings []*domain.Booking,
	now time.Time,
) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)

	if duration <= 0 {
		return slots
	}

	open, closeAt, ok := policy.OperatingWindow(date)
	if !ok {
		return slots
	}

	if beyondHorizon(open, policy, now) {
		return slots
	}

	first := firstCandidate(open, now.Add(policy.MinLeadTime), policy.SlotGranularity)

	for start := first; !start.Add(duration).After(closeAt); start = start.Add(policy.SlotGranularity) {
		end := start.Add(duration)
		if Conflicts(start, end, bookings, policy.Buffer) {
			continue
		}
		slots = append(slots, domain.TimeSlot{Start: start.UTC(), End: end.UTC()})
	}

	return slots
}

// CheckStart проверяет, что интервал [start, start+duration) может быть забронирован
// по правилам календаря (без учёта существующих бронирований).
// Любой слот, возвращённый ComputeSlots для того же now, проходит эту проверку.
func CheckStart(start time.Time, duration time.Duration, policy *domain.CalendarPolicy, now time.Time) error {
	if duration <= 0 {
		return ErrInvalidDuration
	}

	day := policy.DayOf(start)
	open, closeAt, ok := policy.OperatingWindow(day)
	if !ok {
		return ErrDayClosed
	}

	if beyondHorizon(open, policy, now) {
		return ErrBeyondHorizon
	}

	if start.Before(open) || start.Add(duration).After(closeAt) {
		return ErrOutsideHours
	}

	if start.Sub(open)%policy.SlotGranularity != 0 {
		return ErrMisaligned
	}

	if start.Before(now.Add(policy.MinLeadTime)) {
		return ErrLeadTime
	}

	return nil
}

// Conflicts проверяет пересечение [start, end) с подтверждёнными бронированиями,
// каждое из которых расширено на buffer с обеих сторон.
//
// Примеры (буфер 15 минут, бронирование 10:00-11:30, заблокировано 09:45-11:45):
// - 09:30-10:30 → пересечение
// - 08:45-09:45 → нет пересечения (граничат)
// - 11:45-12:45 → нет пересечения (граничат)
func Conflicts(start, end time.Time, bookings []*domain.Booking, buffer time.Duration) bool {
	return FirstConflict(start, end, bookings, buffer) != nil
}

// FirstConflict возвращает первое бронирование, с которым пересекается интервал, или nil
func FirstConflict(start, end time.Time, bookings []*domain.Booking, buffer time.Duration) *domain.Booking {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		blockedStart, blockedEnd := b.BlockedInterval(buffer)
		if start.Before(blockedEnd) && end.After(blockedStart) {
			return b
		}
	}
	return nil
}

// SearchWindow интервал, бронирования из которого могут повлиять на доступность
// [start, end). Используется для выборки из хранилища.
func SearchWindow(start, end time.Time, buffer time.Duration) (time.Time, time.Time) {
	return start.Add(-buffer), end.Add(buffer)
}

// DayWindow интервал выборки бронирований для расчёта слотов на всю дату.
// ok = false, если в этот день запись невозможна.
func DayWindow(date time.Time, policy *domain.CalendarPolicy) (time.Time, time.Time, bool) {
	open, closeAt, ok := policy.OperatingWindow(date)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	from, to := SearchWindow(open, closeAt, policy.Buffer)
	return from, to, true
}

// firstCandidate первое допустимое начало: открытие или ближайшая граница сетки
// (отсчитанной от открытия) не раньше earliest
func firstCandidate(open, earliest time.Time, granularity time.Duration) time.Time {
	if !earliest.After(open) {
		return open
	}
	diff := earliest.Sub(open)
	steps := diff / granularity
	if diff%granularity != 0 {
		steps++
	}
	return open.Add(steps * granularity)
}

// beyondHorizon проверяет, что рабочий день позже последнего дня горизонта записи
func beyondHorizon(open time.Time, policy *domain.CalendarPolicy, now time.Time) bool {
	last, limited := policy.HorizonEnd(now)
	if !limited {
		return false
	}
	return policy.DayOf(open).After(last)
}
