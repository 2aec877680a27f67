package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	"github.com/m04kA/SMC-DetailingBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingBooking/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"service_id",
	"service_name",
	"add_on_ids",
	"add_on_names",
	"start_at",
	"end_at",
	"duration_minutes",
	"price_cents",
	"status",
	"customer_name",
	"customer_phone",
	"customer_email",
	"vehicle_info",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование.
// Если в контексте передана активная транзакция, использует её.
// Проверка пересечений выполняется вызывающим внутри той же транзакции после LockDay.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"service_id",
			"service_name",
			"add_on_ids",
			"add_on_names",
			"start_at",
			"end_at",
			"duration_minutes",
			"price_cents",
			"status",
			"customer_name",
			"customer_phone",
			"customer_email",
			"vehicle_info",
			"notes",
		).
		Values(
			booking.ID,
			booking.ServiceID,
			booking.ServiceName,
			pq.Array(nonNil(booking.AddOnIDs)),
			pq.Array(nonNil(booking.AddOnNames)),
			booking.StartAt.UTC(),
			booking.EndAt.UTC(),
			booking.DurationMinutes,
			booking.PriceCents,
			booking.Status,
			booking.CustomerName,
			booking.CustomerPhone,
			booking.CustomerEmail,
			booking.VehicleInfo,
			booking.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", classify(err), err)
	}

	booking.CreatedAt = createdAt.Time.UTC()
	booking.UpdatedAt = updatedAt.Time.UTC()

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByRange возвращает бронирования, пересекающиеся с [filter.From, filter.To),
// отсортированные по времени начала.
//
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы параллельная отмена
// или создание не изменили набор между проверкой и записью.
func (r *Repository) ListByRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Lt{"start_at": filter.To.UTC()}).
		Where(squirrel.Gt{"end_at": filter.From.UTC()}).
		OrderBy("start_at ASC")

	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusConfirmed})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRange - execute query: %v", classify(err), err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByRange - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByRange - rows error: %v", classify(err), err)
	}

	return bookings, nil
}

// LockDay берёт транзакционную advisory-блокировку на календарный день.
// Все попытки бронирования одного дня выполняются последовательно,
// блокировка снимается автоматически при COMMIT/ROLLBACK.
func (r *Repository) LockDay(ctx context.Context, day string) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockDay requires an active transaction", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtext(?))", lockKey(day))).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockDay - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockDay - execute: %v", classify(err), err)
	}

	return nil
}

// lockKey ключ advisory-блокировки дня, с префиксом таблицы
func lockKey(day string) string {
	return table + ":" + day
}

// Cancel переводит подтверждённое бронирование в статус cancelled
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, reason *string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt.UTC()).
		Set("updated_at", cancelledAt.UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", classify(err), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Различаем "нет такой записи" и "уже отменена"
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrCannotCancel
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime
	var cancelledAt sql.NullTime
	var addOnIDs, addOnNames pq.StringArray

	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.ServiceName,
		&addOnIDs,
		&addOnNames,
		&booking.StartAt,
		&booking.EndAt,
		&booking.DurationMinutes,
		&booking.PriceCents,
		&booking.Status,
		&booking.CustomerName,
		&booking.CustomerPhone,
		&booking.CustomerEmail,
		&booking.VehicleInfo,
		&booking.Notes,
		&booking.CancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.AddOnIDs = []string(addOnIDs)
	booking.AddOnNames = []string(addOnNames)
	booking.StartAt = booking.StartAt.UTC()
	booking.EndAt = booking.EndAt.UTC()
	if cancelledAt.Valid {
		t := cancelledAt.Time.UTC()
		booking.CancelledAt = &t
	}
	booking.CreatedAt = createdAt.Time.UTC()
	booking.UpdatedAt = updatedAt.Time.UTC()

	return &booking, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
