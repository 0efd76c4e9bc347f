package menu

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с меню услуг
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория меню
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает меню по ID. Активность не проверяется здесь -
// неактивное меню блокирует новые записи, но не существующие,
// поэтому решение принимает вызывающий код.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("menus").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Menu
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&m.Name,
		&m.DurationMinutes,
		&m.Price,
		&m.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan menu: %v", ErrScanRow, err)
	}

	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	return &m, nil
}

// ListActive получает все активные меню
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("menus").
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

	menus := make([]*domain.Menu, 0)

	for rows.Next() {
		var m domain.Menu
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&m.ID, &m.Name, &m.DurationMinutes, &m.Price, &m.IsActive, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}

		m.CreatedAt = createdAt.Time
		m.UpdatedAt = updatedAt.Time
		menus = append(menus, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return menus, nil
}
