package availability

import "errors"

var (
	// ErrInvalidDuration длительность работ должна быть положительной
	ErrInvalidDuration = errors.New("availability: duration must be positive")

	// ErrDayClosed день выходной или объявлен нерабочим
	ErrDayClosed = errors.New("availability: business is closed on this date")

	// ErrBeyondHorizon дата дальше допустимого горизонта записи
	ErrBeyondHorizon = errors.New("availability: date is too far in the future")

	// ErrOutsideHours интервал выходит за рабочие часы
	ErrOutsideHours = errors.New("availability: interval is outside operating hours")

	// ErrMisaligned начало не совпадает с сеткой слотов
	ErrMisaligned = errors.New("availability: start is not aligned to slot granularity")

	// ErrLeadTime начало раньше минимального времени до записи
	ErrLeadTime = errors.New("availability: start violates minimum lead time")
)
