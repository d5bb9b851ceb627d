package modern

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	"github.com/velodrive/VRB-SyncService/pkg/dbmetrics"
	"github.com/velodrive/VRB-SyncService/pkg/psqlbuilder"
)

// GetBoardBookings выборка броней точки проката за окно [from, to)
// с eager-загрузкой участников и техники (три запроса, без N+1)
func (r *Repository) GetBoardBookings(ctx context.Context, from, to time.Time, locationID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"location_id",
		"customer_id",
		"legacy_id",
		"starts_at",
		"status",
		"total_pax",
		"party_name",
		"metadata",
		"created_at",
		"updated_at",
	).
		From("bookings").
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.GtOrEq{"starts_at": from}).
		Where(squirrel.Lt{"starts_at": to}).
		OrderBy("starts_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBoardBookings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBoardBookings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}

	if len(bookings) == 0 {
		return bookings, nil
	}

	byID := make(map[uuid.UUID]*domain.Booking, len(bookings))
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	if err := r.attachParticipants(ctx, executor, ids, byID); err != nil {
		return nil, err
	}
	if err := r.attachResources(ctx, executor, ids, byID); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *Repository) attachParticipants(ctx context.Context, executor DBExecutor, ids []uuid.UUID, byID map[uuid.UUID]*domain.Booking) error {
	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"role",
		"customer_id",
		"display_name",
		"created_at",
	).
		From("booking_participants").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachParticipants - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachParticipants - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.BookingParticipant
		var createdAt sql.NullTime

		if err := rows.Scan(&p.ID, &p.BookingID, &p.Role, &p.CustomerID, &p.DisplayName, &createdAt); err != nil {
			return fmt.Errorf("%w: attachParticipants - scan row: %v", ErrScanRow, err)
		}
		p.CreatedAt = createdAt.Time

		if booking, ok := byID[p.BookingID]; ok {
			booking.Participants = append(booking.Participants, &p)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachParticipants - rows error: %v", ErrScanRow, err)
	}
	return nil
}

func (r *Repository) attachResources(ctx context.Context, executor DBExecutor, ids []uuid.UUID, byID map[uuid.UUID]*domain.Booking) error {
	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"vehicle_type_id",
		"quantity",
		"unit_id",
		"created_at",
	).
		From("booking_resources").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachResources - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachResources - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var res domain.BookingResource
		var createdAt sql.NullTime

		if err := rows.Scan(&res.ID, &res.BookingID, &res.VehicleTypeID, &res.Quantity, &res.UnitID, &createdAt); err != nil {
			return fmt.Errorf("%w: attachResources - scan row: %v", ErrScanRow, err)
		}
		res.CreatedAt = createdAt.Time

		if booking, ok := byID[res.BookingID]; ok {
			booking.Resources = append(booking.Resources, &res)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachResources - rows error: %v", ErrScanRow, err)
	}
	return nil
}

// scanBookings сканирует заголовки броней
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var metadata []byte
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.LocationID,
			&booking.CustomerID,
			&booking.LegacyID,
			&booking.StartsAt,
			&booking.Status,
			&booking.TotalPax,
			&booking.PartyName,
			&metadata,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &booking.Metadata); err != nil {
				return nil, fmt.Errorf("%w: scanBookings - unmarshal metadata: %v", ErrScanRow, err)
			}
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
