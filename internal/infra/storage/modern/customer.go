package modern

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	"github.com/velodrive/VRB-SyncService/pkg/dbmetrics"
	"github.com/velodrive/VRB-SyncService/pkg/psqlbuilder"
)

// FindCustomerByEmail ищет клиента по контактному email (регистронезависимо)
func (r *Repository) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"full_name",
		"email",
		"is_placeholder",
		"created_at",
	).
		From("customers").
		Where(squirrel.Eq{"lower(email)": strings.ToLower(strings.TrimSpace(email))}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindCustomerByEmail - build select query: %v", ErrBuildQuery, err)
	}

	var customer domain.Customer
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.FullName,
		&customer.Email,
		&customer.IsPlaceholder,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindCustomerByEmail - scan customer: %v", ErrScanRow, err)
	}

	customer.CreatedAt = createdAt.Time
	return &customer, nil
}

// CreateCustomer вставляет клиента (в том числе placeholder-личность миграции)
func (r *Repository) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("customers").
		Columns("id", "full_name", "email", "is_placeholder").
		Values(customer.ID, customer.FullName, customer.Email, customer.IsPlaceholder).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateCustomer - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateCustomer - execute insert: %v", ErrExecQuery, err)
	}

	customer.CreatedAt = createdAt.Time
	return customer, nil
}
