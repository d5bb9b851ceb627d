package modern

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	"github.com/velodrive/VRB-SyncService/pkg/dbmetrics"
	"github.com/velodrive/VRB-SyncService/pkg/psqlbuilder"
)

// GetLocation получает точку проката по ID
func (r *Repository) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	return r.findLocation(ctx, squirrel.Eq{"id": id}, "GetLocation")
}

// FindLocationByName ищет точку проката по имени
// Легаси-записи ссылаются на точку текстовой меткой, современное
// хранилище - числовым ID; миграция сопоставляет их по имени
func (r *Repository) FindLocationByName(ctx context.Context, name string) (*domain.Location, error) {
	return r.findLocation(ctx, squirrel.Eq{"name": name}, "FindLocationByName")
}

func (r *Repository) findLocation(ctx context.Context, where squirrel.Eq, method string) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "timezone").
		From("locations").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var loc domain.Location
	err = executor.QueryRowContext(ctx, query, args...).Scan(&loc.ID, &loc.Name, &loc.Timezone)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan location: %v", ErrScanRow, method, err)
	}

	return &loc, nil
}
