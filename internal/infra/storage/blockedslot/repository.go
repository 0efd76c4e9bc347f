package blockedslot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий заблокированных окон времени салона
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блоков
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListForDate получает блоки, пересекающие сутки указанной даты.
// Сутки рассматриваются как полуоткрытый интервал [00:00, 00:00 следующего дня).
func (r *Repository) ListForDate(ctx context.Context, date time.Time) ([]*domain.BlockedTimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query, args, err := psqlbuilder.Select(
		"id",
		"start_datetime",
		"end_datetime",
		"reason",
		"created_at",
	).
		From("blocked_time_slots").
		Where(squirrel.Lt{"start_datetime": dayEnd}).
		Where(squirrel.Gt{"end_datetime": dayStart}).
		OrderBy("start_datetime ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.BlockedTimeSlot, 0)

	for rows.Next() {
		var b domain.BlockedTimeSlot
		var createdAt sql.NullTime

		if err := rows.Scan(&b.ID, &b.StartDateTime, &b.EndDateTime, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListForDate - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		blocks = append(blocks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForDate - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}
