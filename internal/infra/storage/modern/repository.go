package modern

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	"github.com/velodrive/VRB-SyncService/pkg/dbmetrics"
	"github.com/velodrive/VRB-SyncService/pkg/psqlbuilder"
)

// pq код unique_violation
const pgUniqueViolation = "23505"

// bookingsLegacyIDConstraint имя уникального индекса по мостовому ключу
const bookingsLegacyIDConstraint = "bookings_legacy_id_key"

// Repository репозиторий современного хранилища (PostgreSQL)
type Repository struct {
	db DBExecutor
}

// NewRepository создает репозиторий современного хранилища
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBooking вставляет заголовок брони
// Вставка брони с уже привязанным legacy_id падает на уникальном индексе,
// это штатный сигнал "запись уже мигрирована" - возвращается ErrLegacyIDConflict.
// Вызывается внутри транзакции миграции (через контекст), чтобы при сбое
// на участниках или технике не осталось полуброни
func (r *Repository) CreateBooking(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	metadata, err := json.Marshal(booking.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBooking - marshal metadata: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"location_id",
			"customer_id",
			"legacy_id",
			"starts_at",
			"status",
			"total_pax",
			"party_name",
			"metadata",
		).
		Values(
			booking.ID,
			booking.LocationID,
			booking.CustomerID,
			booking.LegacyID,
			booking.StartsAt,
			booking.Status,
			booking.TotalPax,
			booking.PartyName,
			metadata,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBooking - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err != nil {
		if isLegacyIDConflict(err) {
			return nil, ErrLegacyIDConflict
		}
		return nil, fmt.Errorf("%w: CreateBooking - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// CreateParticipants вставляет участников брони одним запросом
func (r *Repository) CreateParticipants(ctx context.Context, participants []*domain.BookingParticipant) error {
	if len(participants) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("booking_participants").
		Columns("id", "booking_id", "role", "customer_id", "display_name")

	for _, p := range participants {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		insertBuilder = insertBuilder.Values(p.ID, p.BookingID, p.Role, p.CustomerID, p.DisplayName)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateParticipants - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateParticipants - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CreateResources вставляет технику брони одним запросом
// Одна строка на тип техники с количеством
func (r *Repository) CreateResources(ctx context.Context, resources []*domain.BookingResource) error {
	if len(resources) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("booking_resources").
		Columns("id", "booking_id", "vehicle_type_id", "quantity", "unit_id")

	for _, res := range resources {
		if res.ID == uuid.Nil {
			res.ID = uuid.New()
		}
		insertBuilder = insertBuilder.Values(res.ID, res.BookingID, res.VehicleTypeID, res.Quantity, res.UnitID)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateResources - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateResources - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// FindBookingIDByLegacyID ищет бронь по мостовому ключу
// Быстрый путь для идемпотентного повторного прогона синка; защитой от
// гонки остается уникальный индекс при вставке
func (r *Repository) FindBookingIDByLegacyID(ctx context.Context, legacyID int64) (uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"legacy_id": legacyID}).
		ToSql()

	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: FindBookingIDByLegacyID - build select query: %v", ErrBuildQuery, err)
	}

	var id uuid.UUID
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrBookingNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: FindBookingIDByLegacyID - scan id: %v", ErrScanRow, err)
	}

	return id, nil
}

// CountBridged количество мигрированных броней с начала брони в окне
func (r *Repository) CountBridged(ctx context.Context, from, to time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where("legacy_id IS NOT NULL").
		Where(squirrel.GtOrEq{"starts_at": from}).
		Where(squirrel.Lt{"starts_at": to}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountBridged - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBridged - scan count: %v", ErrExecQuery, err)
	}

	return count, nil
}

func isLegacyIDConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == bookingsLegacyIDConstraint
}
