package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// колонки таблицы reservations в порядке сканирования
var reservationColumns = []string{
	"id",
	"user_id",
	"staff_id",
	"menu_id",
	"reserved_date",
	"reserved_time",
	"duration_minutes",
	"status",
	"menu_name",
	"menu_price",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте передана активная транзакция, использует её - создание
// записи с проверкой конфликтов обязано выполняться в одной транзакции
// с повторным чтением занятости (см. usecase create_reservation).
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"staff_id",
			"menu_id",
			"reserved_date",
			"reserved_time",
			"duration_minutes",
			"status",
			"menu_name",
			"menu_price",
			"notes",
		).
		Values(
			res.UserID,
			res.Staff.StaffIDPtr(),
			res.MenuID,
			res.ReservedDate,
			res.ReservedTime,
			res.DurationMinutes,
			res.Status,
			res.MenuName,
			res.MenuPrice,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку - GetByID используется
	// при переносе записи перед повторной проверкой конфликтов
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservationRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// ListByUser получает историю записей пользователя,
// опционально фильтруя по статусу
func (r *Repository) ListByUser(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reserved_date DESC, reserved_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListActiveByDate получает все активные (pending/confirmed) записи на дату.
// Используется read-path'ом расчёта доступных слотов.
func (r *Repository) ListActiveByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	return r.listActive(ctx, date, nil)
}

// ListActiveByUserAndDate получает активные записи пользователя на дату.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) ListActiveByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*domain.Reservation, error) {
	return r.listActive(ctx, date, squirrel.Eq{"user_id": userID})
}

// ListActiveByStaffAndDate получает активные записи сотрудника на дату.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Reservation, error) {
	return r.listActive(ctx, date, squirrel.Eq{"staff_id": staffID})
}

// ListActivePoolByDate получает активные записи без сотрудника (пул) на дату.
// Пул проверяется как единый виртуальный ресурс.
func (r *Repository) ListActivePoolByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	return r.listActive(ctx, date, squirrel.Eq{"staff_id": nil})
}

func (r *Repository) listActive(ctx context.Context, date time.Time, extra squirrel.Sqlizer) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatusStrings := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"reserved_date": date}).
		Where(squirrel.Eq{"status": activeStatusStrings}).
		OrderBy("reserved_time ASC")

	if extra != nil {
		selectBuilder = selectBuilder.Where(extra)
	}

	// Внутри транзакции добавляем FOR UPDATE: повторная проверка занятости
	// в usecase создания/переноса записи должна видеть и блокировать
	// актуальное закоммиченное состояние
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// UpdateSchedule переносит запись: меняет сотрудника, дату, время, меню
// и длительность. Вызывается только внутри транзакции переноса,
// после повторной проверки конфликтов.
func (r *Repository) UpdateSchedule(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("staff_id", res.Staff.StaffIDPtr()).
		Set("menu_id", res.MenuID).
		Set("reserved_date", res.ReservedDate).
		Set("reserved_time", res.ReservedTime).
		Set("duration_minutes", res.DurationMinutes).
		Set("menu_name", res.MenuName).
		Set("menu_price", res.MenuPrice).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanReservationRow(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var staffID sql.NullInt64
	var reservedTime types.TimeOfDay
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&staffID,
		&res.MenuID,
		&res.ReservedDate,
		&reservedTime,
		&res.DurationMinutes,
		&res.Status,
		&res.MenuName,
		&res.MenuPrice,
		&res.Notes,
		&res.CancellationReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if staffID.Valid {
		res.Staff = domain.AssignStaff(staffID.Int64)
	} else {
		res.Staff = domain.PoolAssignment()
	}
	res.ReservedTime = reservedTime
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс записей
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := r.scanReservationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
