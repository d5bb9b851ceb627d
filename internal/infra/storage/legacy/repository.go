package legacy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/velodrive/VRB-SyncService/internal/domain"
)

// reservationColumns колонки легаси-таблицы в порядке сканирования
var reservationColumns = []string{
	"res_id",
	"customer_name",
	"contact_email",
	"pax_count",
	"res_date",
	"res_time",
	"location",
	"qty_sb2",
	"qty_sb4",
	"qty_atv",
	"qty_js1",
	"qty_js2",
	"qty_eb",
	"status",
	"created_at",
}

// Repository read-only адаптер легаси-таблицы reservations (MySQL)
// Этот сервис никогда не пишет в легаси-хранилище: мигрированные записи
// остаются на месте и подавляются на чтении по мостовому ключу
type Repository struct {
	db DBExecutor
}

// NewRepository создает адаптер легаси-хранилища
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FetchReservations выборка легаси-записей по окну дат
// Изоляция чтения - read committed (дефолт MySQL-сессии достаточен)
func (r *Repository) FetchReservations(ctx context.Context, filter domain.LegacyReservationFilter) ([]*domain.LegacyReservation, error) {
	selectBuilder := squirrel.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.GtOrEq{"res_date": filter.From.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"res_date": filter.To.Format(domain.DateFormat)}).
		OrderBy("res_date ASC, res_time ASC, res_id ASC")

	if filter.Location != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location": *filter.Location})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.LegacyStatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchReservations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchReservations - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// CountReservations количество легаси-записей в окне (для отчета о прогрессе)
func (r *Repository) CountReservations(ctx context.Context, filter domain.LegacyReservationFilter) (int64, error) {
	selectBuilder := squirrel.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.GtOrEq{"res_date": filter.From.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"res_date": filter.To.Format(domain.DateFormat)})

	if filter.Location != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location": *filter.Location})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.LegacyStatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountReservations - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountReservations - scan count: %v", ErrExecQuery, err)
	}

	return count, nil
}

// scanReservations сканирует результаты запроса в слайс легаси-записей
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.LegacyReservation, error) {
	reservations := make([]*domain.LegacyReservation, 0)

	for rows.Next() {
		var res domain.LegacyReservation
		var createdAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.CustomerName,
			&res.ContactEmail,
			&res.PaxCount,
			&res.ResDate,
			&res.ResTime,
			&res.Location,
			&res.QtySB2,
			&res.QtySB4,
			&res.QtyATV,
			&res.QtyJS1,
			&res.QtyJS2,
			&res.QtyEB,
			&res.Status,
			&createdAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
