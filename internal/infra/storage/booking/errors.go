package booking

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrTransaction возвращается, когда операция требует активной транзакции
	ErrTransaction = errors.New("booking.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrSerialization возвращается, когда PostgreSQL отменил транзакцию из-за конфликта
	ErrSerialization = errors.New("booking.repository: serialization failure")

	// ErrCannotCancel возвращается, когда бронирование уже отменено
	ErrCannotCancel = errors.New("booking.repository: booking cannot be cancelled")
)

// SQLSTATE кодов конфликтов конкурентных транзакций
const (
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

// IsSerializationFailure проверяет, что ошибка вызвана конфликтом параллельных транзакций.
// Распознаёт и обёрнутую ErrSerialization, и исходную *pq.Error (например, из COMMIT).
func IsSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSerialization) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
	}
	return false
}

// classify выбирает sentinel для ошибки выполнения запроса
func classify(err error) error {
	if IsSerializationFailure(err) {
		return ErrSerialization
	}
	return ErrExecQuery
}
