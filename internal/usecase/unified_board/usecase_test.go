package unified_board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	modernRepo "github.com/velodrive/VRB-SyncService/internal/infra/storage/modern"
	"github.com/velodrive/VRB-SyncService/pkg/ptr"
	"github.com/velodrive/VRB-SyncService/pkg/types"
)

type fakeLegacyRepo struct {
	records []*domain.LegacyReservation
	err     error
}

func (f *fakeLegacyRepo) FetchReservations(_ context.Context, _ domain.LegacyReservationFilter) ([]*domain.LegacyReservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeModernRepo struct {
	location *domain.Location
	bookings []*domain.Booking

	locationErr error
	bookingsErr error
}

func (f *fakeModernRepo) GetLocation(_ context.Context, id int64) (*domain.Location, error) {
	if f.locationErr != nil {
		return nil, f.locationErr
	}
	if f.location == nil || f.location.ID != id {
		return nil, modernRepo.ErrLocationNotFound
	}
	return f.location, nil
}

func (f *fakeModernRepo) GetBoardBookings(_ context.Context, _, _ time.Time, _ int64) ([]*domain.Booking, error) {
	if f.bookingsErr != nil {
		return nil, f.bookingsErr
	}
	return f.bookings, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var (
	boardDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	denver, _ = time.LoadLocation("America/Denver")
	moab      = &domain.Location{ID: 1, Name: "Moab Main", Timezone: "America/Denver"}
)

func legacyRecord(id int64, startTime string) *domain.LegacyReservation {
	return &domain.LegacyReservation{
		ID:           id,
		CustomerName: "Legacy Renter",
		PaxCount:     2,
		ResDate:      boardDate,
		ResTime:      types.TimeString(startTime),
		Location:     "Moab Main",
		Status:       "Confirmed",
		QtySB2:       1,
	}
}

func modernBooking(legacyID *int64, startsAt time.Time) *domain.Booking {
	b := &domain.Booking{
		ID:         uuid.New(),
		LocationID: 1,
		LegacyID:   legacyID,
		StartsAt:   startsAt,
		Status:     domain.StatusConfirmed,
		TotalPax:   3,
		Participants: []*domain.BookingParticipant{
			{Role: domain.RolePrimaryRenter, DisplayName: "Modern Renter"},
		},
		Resources: []*domain.BookingResource{
			{VehicleTypeID: "atv-quad", Quantity: 2},
		},
	}
	return b
}

func newTestUseCase(legacy *fakeLegacyRepo, modern *fakeModernRepo) *UseCase {
	return NewUseCase(legacy, modern, noopLogger{})
}

func TestExecute_ShadowsMigratedLegacyRecord(t *testing.T) {
	// Запись 501 мигрирована: на доске ровно одна строка для нее,
	// синтезированная из современной брони
	migrated := modernBooking(ptr.Ptr(int64(501)), time.Date(2026, 9, 1, 14, 30, 0, 0, denver))
	legacy := &fakeLegacyRepo{records: []*domain.LegacyReservation{
		legacyRecord(501, "14:30"),
		legacyRecord(502, "09:00"),
	}}
	modern := &fakeModernRepo{location: moab, bookings: []*domain.Booking{migrated}}

	uc := newTestUseCase(legacy, modern)
	resp, err := uc.Execute(context.Background(), &Request{Date: boardDate, LocationID: 1})
	require.NoError(t, err)

	require.Len(t, resp.Rows, 2)

	var for501 []*domain.UnifiedRow
	for _, row := range resp.Rows {
		if row.LegacyID != nil && *row.LegacyID == 501 {
			for501 = append(for501, row)
		}
	}
	require.Len(t, for501, 1)
	assert.Equal(t, domain.RowSourceModern, for501[0].Source)
	require.NotNil(t, for501[0].BookingID)
	assert.Equal(t, migrated.ID, *for501[0].BookingID)
}

func TestExecute_SynthesizesLegacyShapeFromBooking(t *testing.T) {
	booking := modernBooking(nil, time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC))
	legacy := &fakeLegacyRepo{}
	modern := &fakeModernRepo{location: moab, bookings: []*domain.Booking{booking}}

	uc := newTestUseCase(legacy, modern)
	resp, err := uc.Execute(context.Background(), &Request{Date: boardDate, LocationID: 1})
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1)
	row := resp.Rows[0]
	assert.Equal(t, domain.RowSourceModern, row.Source)
	assert.Equal(t, "Modern Renter", row.CustomerName)
	assert.Equal(t, 3, row.PaxCount)
	// 21:00 UTC = 15:00 в Денвере: доска показывает местное время
	assert.Equal(t, "15:00", row.StartTime.String())
	assert.Equal(t, map[string]int{"ATV": 2}, row.VehicleCounts)
	// Статус в легаси-словаре
	assert.Equal(t, "Confirmed", row.Status)
	assert.Equal(t, "Moab Main", row.Location)
}

func TestExecute_NameFallbackChain(t *testing.T) {
	withParty := modernBooking(nil, time.Date(2026, 9, 1, 16, 0, 0, 0, denver))
	withParty.Participants = nil
	withParty.PartyName = ptr.Ptr("Diaz Family")

	anonymous := modernBooking(nil, time.Date(2026, 9, 1, 17, 0, 0, 0, denver))
	anonymous.Participants = nil

	modern := &fakeModernRepo{location: moab, bookings: []*domain.Booking{withParty, anonymous}}
	uc := newTestUseCase(&fakeLegacyRepo{}, modern)

	resp, err := uc.Execute(context.Background(), &Request{Date: boardDate, LocationID: 1})
	require.NoError(t, err)

	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "Diaz Family", resp.Rows[0].CustomerName)
	assert.Equal(t, domain.UnknownRenterName, resp.Rows[1].CustomerName)
}

func TestExecute_UnmappableVehicleTypeShownAsOther(t *testing.T) {
	booking := modernBooking(nil, time.Date(2026, 9, 1, 10, 0, 0, 0, denver))
	booking.Resources = []*domain.BookingResource{
		{VehicleTypeID: "hoverboard", Quantity: 1},
		{VehicleTypeID: "e-bike", Quantity: 2},
	}
	modern := &fakeModernRepo{location: moab, bookings: []*domain.Booking{booking}}
	uc := newTestUseCase(&fakeLegacyRepo{}, modern)

	resp, err := uc.Execute(context.Background(), &Request{Date: boardDate, LocationID: 1})
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1)
	assert.Equal(t, map[string]int{"Other": 1, "EB": 2}, resp.Rows[0].VehicleCounts)
	assert.Equal(t, 3, resp.Rows[0].TotalVehicles())
}

func TestExecute_StableOrdering(t *testing.T) {
	legacy := &fakeLegacyRepo{records: []*domain.LegacyReservation{
		legacyRecord(502, "14:30"),
		legacyRecord(503, "09:00"),
	}}
	booking := modernBooking(nil, time.Date(2026, 9, 1, 11, 0, 0, 0, denver))
	modern := &fakeModernRepo{location: moab, bookings: []*domain.Booking{booking}}

	uc := newTestUseCase(legacy, modern)
	resp, err := uc.Execute(context.Background(), &Request{Date: boardDate, LocationID: 1})
	require.NoError(t, err)

	require.Len(t, resp.Rows, 3)
	assert.Equal(t, "09:00", resp.Rows[0].StartTime.String())
	assert.Equal(t, "11:00", resp.Rows[1].StartTime.String())
	assert.Equal(t, "14:30", resp.Rows[2].StartTime.String())
}

func TestExecute_LocationNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeLegacyRepo{}, &fakeModernRepo{location: moab})

	_, err := uc.Execute(context.Background(), &Request{Date: boardDate, LocationID: 99})
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecute_LegacyStoreFailureIsFatal(t *testing.T) {
	legacy := &fakeLegacyRepo{err: errors.New("connection refused")}
	modern := &fakeModernRepo{location: moab}
	uc := newTestUseCase(legacy, modern)

	_, err := uc.Execute(context.Background(), &Request{Date: boardDate, LocationID: 1})
	require.ErrorIs(t, err, ErrLegacyStore)
}

func TestExecute_ModernStoreFailureIsFatal(t *testing.T) {
	modern := &fakeModernRepo{location: moab, bookingsErr: errors.New("connection refused")}
	uc := newTestUseCase(&fakeLegacyRepo{}, modern)

	_, err := uc.Execute(context.Background(), &Request{Date: boardDate, LocationID: 1})
	require.ErrorIs(t, err, ErrModernStore)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(&fakeLegacyRepo{}, &fakeModernRepo{location: moab})

	_, err := uc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{LocationID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Date: boardDate})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
