package staff

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

// Repository репозиторий для работы с сотрудниками,
// их сменами и отпусками
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает сотрудника по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Staff
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Name,
		&s.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// ListActive получает всех активных сотрудников в стабильном порядке
// (по возрастанию ID). Порядок фиксирован: от него зависит детерминизм
// авто-назначения сотрудника.
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staffList := make([]*domain.Staff, 0)

	for rows.Next() {
		var s domain.Staff
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time
		staffList = append(staffList, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return staffList, nil
}

// ListActiveShiftRules получает активные правила смен для набора сотрудников.
// Пустой staffIDs даёт пустой результат.
func (r *Repository) ListActiveShiftRules(ctx context.Context, staffIDs []int64) ([]*domain.ShiftRule, error) {
	if len(staffIDs) == 0 {
		return []*domain.ShiftRule{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"day_of_week",
		"start_time",
		"end_time",
		"is_active",
	).
		From("staff_shift_rules").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("staff_id ASC, day_of_week ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveShiftRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveShiftRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.ShiftRule, 0)

	for rows.Next() {
		var rule domain.ShiftRule
		var dayOfWeek int
		var startTime, endTime types.TimeOfDay

		if err := rows.Scan(&rule.ID, &rule.StaffID, &dayOfWeek, &startTime, &endTime, &rule.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListActiveShiftRules - scan row: %v", ErrScanRow, err)
		}

		rule.DayOfWeek = time.Weekday(dayOfWeek)
		rule.StartTime = startTime
		rule.EndTime = endTime
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveShiftRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// ListVacationsCovering получает отпуска сотрудников, покрывающие дату
// (границы диапазона включительно)
func (r *Repository) ListVacationsCovering(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.Vacation, error) {
	if len(staffIDs) == 0 {
		return []*domain.Vacation{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"start_date",
		"end_date",
	).
		From("staff_vacations").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.LtOrEq{"start_date": date}).
		Where(squirrel.GtOrEq{"end_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListVacationsCovering - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListVacationsCovering - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	vacations := make([]*domain.Vacation, 0)

	for rows.Next() {
		var v domain.Vacation
		if err := rows.Scan(&v.ID, &v.StaffID, &v.StartDate, &v.EndDate); err != nil {
			return nil, fmt.Errorf("%w: ListVacationsCovering - scan row: %v", ErrScanRow, err)
		}
		vacations = append(vacations, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListVacationsCovering - rows error: %v", ErrScanRow, err)
	}

	return vacations, nil
}
