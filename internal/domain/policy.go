package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingBooking/pkg/types"
)

var (
	// ErrInvalidPolicy возвращается при некорректной конфигурации календаря
	ErrInvalidPolicy = errors.New("invalid calendar policy")
)

// DayHours рабочие часы на один день недели (локальное время бизнеса)
type DayHours struct {
	Closed bool
	Open   types.TimeString
	Close  types.TimeString
}

// CalendarPolicy правила календаря: рабочие часы, шаг слотов, буфер между работами,
// минимальное время до начала и горизонт записи.
// Неизменяемая структура, передаётся в компоненты явно.
type CalendarPolicy struct {
	Location           *time.Location
	Hours              [7]DayHours // индекс - time.Weekday
	BlackoutDates      map[string]struct{}
	SlotGranularity    time.Duration
	Buffer             time.Duration
	MinLeadTime        time.Duration
	AdvanceBookingDays int // 0 = без ограничений
}

// Validate проверяет согласованность политики
func (p *CalendarPolicy) Validate() error {
	if p.Location == nil {
		return fmt.Errorf("%w: time zone is required", ErrInvalidPolicy)
	}
	if p.SlotGranularity < time.Duration(MinSlotGranularityMinutes)*time.Minute ||
		p.SlotGranularity > time.Duration(MaxSlotGranularityMinutes)*time.Minute ||
		p.SlotGranularity%time.Minute != 0 {
		return fmt.Errorf("%w: slot granularity %s is out of range", ErrInvalidPolicy, p.SlotGranularity)
	}
	if p.Buffer < 0 || p.MinLeadTime < 0 {
		return fmt.Errorf("%w: buffer and lead time must not be negative", ErrInvalidPolicy)
	}
	if p.AdvanceBookingDays < MinAdvanceBookingDays || p.AdvanceBookingDays > MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking days must be in [%d, %d]",
			ErrInvalidPolicy, MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}

	for wd, h := range p.Hours {
		if h.Closed {
			continue
		}
		open, err := h.Open.Minutes()
		if err != nil {
			return fmt.Errorf("%w: %s open: %v", ErrInvalidPolicy, time.Weekday(wd), err)
		}
		closeAt, err := h.Close.Minutes()
		if err != nil {
			return fmt.Errorf("%w: %s close: %v", ErrInvalidPolicy, time.Weekday(wd), err)
		}
		// Окно должно умещаться в одни календарные сутки
		if open >= closeAt {
			return fmt.Errorf("%w: %s opens at %s but closes at %s",
				ErrInvalidPolicy, time.Weekday(wd), h.Open, h.Close)
		}
	}

	return nil
}

// DayOf возвращает локальную календарную дату момента t в часовом поясе бизнеса
func (p *CalendarPolicy) DayOf(t time.Time) time.Time {
	local := t.In(p.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location)
}

// IsBlackout проверяет, что дата (год/месяц/день) объявлена нерабочей
func (p *CalendarPolicy) IsBlackout(date time.Time) bool {
	if len(p.BlackoutDates) == 0 {
		return false
	}
	_, ok := p.BlackoutDates[date.Format(DateFormat)]
	return ok
}

// OperatingWindow возвращает рабочее окно на указанную дату как абсолютные моменты.
// Год, месяц и день берутся из date без перевода в другой часовой пояс.
// ok = false, если день выходной или нерабочий.
func (p *CalendarPolicy) OperatingWindow(date time.Time) (open time.Time, closeAt time.Time, ok bool) {
	y, m, d := date.Date()
	civil := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if p.IsBlackout(civil) {
		return time.Time{}, time.Time{}, false
	}

	hours := p.Hours[civil.Weekday()]
	if hours.Closed {
		return time.Time{}, time.Time{}, false
	}

	open, err := hours.Open.On(y, m, d, p.Location)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	closeAt, err = hours.Close.On(y, m, d, p.Location)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	return open, closeAt, true
}

// HorizonEnd последний локальный день, доступный для записи (включительно).
// ok = false, если горизонт не ограничен.
func (p *CalendarPolicy) HorizonEnd(now time.Time) (time.Time, bool) {
	if p.AdvanceBookingDays == 0 {
		return time.Time{}, false
	}
	return p.DayOf(now).AddDate(0, 0, p.AdvanceBookingDays), true
}
