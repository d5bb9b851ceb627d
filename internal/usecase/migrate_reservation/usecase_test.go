package migrate_reservation

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

// fakeModernRepo in-memory современное хранилище для тестов
type fakeModernRepo struct {
	locations map[string]*domain.Location
	customers map[string]*domain.Customer // по email в нижнем регистре

	bookings     []*domain.Booking
	participants []*domain.BookingParticipant
	resources    []*domain.BookingResource

	bridged map[int64]uuid.UUID

	createBookingErr      error
	createParticipantsErr error
	createResourcesErr    error
	findCustomerErr       error
	createCustomerErr     error
}

func newFakeModernRepo() *fakeModernRepo {
	return &fakeModernRepo{
		locations: map[string]*domain.Location{
			"Moab Main": {ID: 1, Name: "Moab Main", Timezone: "America/Denver"},
		},
		customers: map[string]*domain.Customer{},
		bridged:   map[int64]uuid.UUID{},
	}
}

func (f *fakeModernRepo) CreateBooking(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createBookingErr != nil {
		return nil, f.createBookingErr
	}
	if booking.LegacyID != nil {
		if _, ok := f.bridged[*booking.LegacyID]; ok {
			return nil, modernRepo.ErrLegacyIDConflict
		}
	}
	created := *booking
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	f.bookings = append(f.bookings, &created)
	if created.LegacyID != nil {
		f.bridged[*created.LegacyID] = created.ID
	}
	return &created, nil
}

func (f *fakeModernRepo) CreateParticipants(_ context.Context, participants []*domain.BookingParticipant) error {
	if f.createParticipantsErr != nil {
		return f.createParticipantsErr
	}
	f.participants = append(f.participants, participants...)
	return nil
}

func (f *fakeModernRepo) CreateResources(_ context.Context, resources []*domain.BookingResource) error {
	if f.createResourcesErr != nil {
		return f.createResourcesErr
	}
	f.resources = append(f.resources, resources...)
	return nil
}

func (f *fakeModernRepo) FindBookingIDByLegacyID(_ context.Context, legacyID int64) (uuid.UUID, error) {
	if id, ok := f.bridged[legacyID]; ok {
		return id, nil
	}
	return uuid.Nil, modernRepo.ErrBookingNotFound
}

func (f *fakeModernRepo) FindLocationByName(_ context.Context, name string) (*domain.Location, error) {
	if loc, ok := f.locations[name]; ok {
		return loc, nil
	}
	return nil, modernRepo.ErrLocationNotFound
}

func (f *fakeModernRepo) FindCustomerByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if f.findCustomerErr != nil {
		return nil, f.findCustomerErr
	}
	if c, ok := f.customers[email]; ok {
		return c, nil
	}
	return nil, modernRepo.ErrCustomerNotFound
}

func (f *fakeModernRepo) CreateCustomer(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if f.createCustomerErr != nil {
		return nil, f.createCustomerErr
	}
	created := *customer
	created.ID = uuid.New()
	if created.Email != nil {
		f.customers[*created.Email] = &created
	}
	return &created, nil
}

// fakeTxManager прогоняет fn и откатывает состояние fake-репозитория
// при ошибке, имитируя транзакционный rollback
type fakeTxManager struct {
	repo *fakeModernRepo
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	bookings := len(m.repo.bookings)
	participants := len(m.repo.participants)
	resources := len(m.repo.resources)
	bridged := make(map[int64]uuid.UUID, len(m.repo.bridged))
	for k, v := range m.repo.bridged {
		bridged[k] = v
	}

	if err := fn(ctx); err != nil {
		m.repo.bookings = m.repo.bookings[:bookings]
		m.repo.participants = m.repo.participants[:participants]
		m.repo.resources = m.repo.resources[:resources]
		m.repo.bridged = bridged
		return err
	}
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newTestUseCase(repo *fakeModernRepo) *UseCase {
	return NewUseCase(repo, &fakeTxManager{repo: repo}, noopLogger{})
}

func sampleReservation() *domain.LegacyReservation {
	return &domain.LegacyReservation{
		ID:           501,
		CustomerName: "Jordan Diaz",
		PaxCount:     3,
		ResDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ResTime:      types.TimeString("14:30"),
		Location:     "Moab Main",
		Status:       "Confirmed",
		QtySB2:       1,
	}
}

func TestExecute_MigratesReservation(t *testing.T) {
	repo := newFakeModernRepo()
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{Reservation: sampleReservation()})
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, repo.bookings, 1)
	booking := repo.bookings[0]
	assert.Equal(t, resp.BookingID, booking.ID)
	assert.Equal(t, int64(1), booking.LocationID)
	require.NotNil(t, booking.LegacyID)
	assert.Equal(t, int64(501), *booking.LegacyID)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.Equal(t, 3, booking.TotalPax)

	// Время начала в местной зоне точки проката
	tz, _ := time.LoadLocation("America/Denver")
	assert.Equal(t, time.Date(2026, 9, 1, 14, 30, 0, 0, tz), booking.StartsAt)

	// Провенанс в метаданных
	assert.Equal(t, "Confirmed", booking.Metadata[domain.MetaKeyLegacyStatus])
	assert.Equal(t, "SB2:1", booking.Metadata[domain.MetaKeyLegacyVehicleCodes])
	assert.NotEmpty(t, booking.Metadata[domain.MetaKeyMigratedAt])
}

func TestExecute_ParticipantInvariant(t *testing.T) {
	repo := newFakeModernRepo()
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{Reservation: sampleReservation()})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Participants)

	// Ровно pax_count участников: один PRIMARY_RENTER и pax_count-1 пассажиров
	require.Len(t, repo.participants, 3)

	var primary, passengers int
	for _, p := range repo.participants {
		switch p.Role {
		case domain.RolePrimaryRenter:
			primary++
			assert.Equal(t, "Jordan Diaz", p.DisplayName)
		case domain.RolePassenger:
			passengers++
		}
	}
	assert.Equal(t, 1, primary)
	assert.Equal(t, 2, passengers)
	assert.Equal(t, "Guest 1 of Jordan Diaz", repo.participants[1].DisplayName)
	assert.Equal(t, "Guest 2 of Jordan Diaz", repo.participants[2].DisplayName)
}

func TestExecute_ResourceRows(t *testing.T) {
	repo := newFakeModernRepo()
	uc := newTestUseCase(repo)

	rec := sampleReservation()
	rec.QtyATV = 2
	rec.QtyEB = 1

	resp, err := uc.Execute(context.Background(), &Request{Reservation: rec})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Resources)

	require.Len(t, repo.resources, 3)
	byType := map[string]int{}
	for _, r := range repo.resources {
		byType[r.VehicleTypeID] = r.Quantity
		assert.Equal(t, resp.BookingID, r.BookingID)
	}
	assert.Equal(t, map[string]int{
		"sxs-2-seater": 1,
		"atv-quad":     2,
		"e-bike":       1,
	}, byType)

	booking := repo.bookings[0]
	assert.Equal(t, "SB2:1,ATV:2,EB:1", booking.Metadata[domain.MetaKeyLegacyVehicleCodes])
}

func TestExecute_AlreadyMigrated_FastPath(t *testing.T) {
	repo := newFakeModernRepo()
	repo.bridged[501] = uuid.New()
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{Reservation: sampleReservation()})
	require.ErrorIs(t, err, ErrAlreadyMigrated)
	assert.Empty(t, repo.bookings)
}

func TestExecute_AlreadyMigrated_InsertConflict(t *testing.T) {
	// Быстрый путь промахивается, но вставка натыкается на уникальный
	// индекс - параллельный прогон успел первым
	repo := newFakeModernRepo()
	repo.createBookingErr = modernRepo.ErrLegacyIDConflict
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{Reservation: sampleReservation()})
	require.ErrorIs(t, err, ErrAlreadyMigrated)
}

func TestExecute_UnknownLocation(t *testing.T) {
	repo := newFakeModernRepo()
	uc := newTestUseCase(repo)

	rec := sampleReservation()
	rec.Location = "Закрытая точка"

	_, err := uc.Execute(context.Background(), &Request{Reservation: rec})
	require.ErrorIs(t, err, ErrUnknownLocation)
	assert.Empty(t, repo.bookings)
}

func TestExecute_UnknownStatusNeedsReview(t *testing.T) {
	repo := newFakeModernRepo()
	uc := newTestUseCase(repo)

	rec := sampleReservation()
	rec.Status = "Waitlisted"

	_, err := uc.Execute(context.Background(), &Request{Reservation: rec})
	require.NoError(t, err)

	booking := repo.bookings[0]
	assert.Equal(t, domain.StatusNeedsReview, booking.Status)
	// Исходный статус сохранен в провенансе
	assert.Equal(t, "Waitlisted", booking.Metadata[domain.MetaKeyLegacyStatus])
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(newFakeModernRepo())

	tests := []struct {
		name   string
		mutate func(*domain.LegacyReservation)
	}{
		{"zero pax", func(r *domain.LegacyReservation) { r.PaxCount = 0 }},
		{"missing date", func(r *domain.LegacyReservation) { r.ResDate = time.Time{} }},
		{"missing location", func(r *domain.LegacyReservation) { r.Location = "" }},
		{"non-positive id", func(r *domain.LegacyReservation) { r.ID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleReservation()
			tt.mutate(rec)
			_, err := uc.Execute(context.Background(), &Request{Reservation: rec})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := uc.Execute(context.Background(), &Request{Reservation: nil})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RollbackOnParticipantFailure(t *testing.T) {
	repo := newFakeModernRepo()
	repo.createParticipantsErr = errors.New("connection reset")
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{Reservation: sampleReservation()})
	require.ErrorIs(t, err, ErrInternal)

	// Полуброни нет: транзакция откатила заголовок вместе с участниками
	assert.Empty(t, repo.bookings)
	assert.Empty(t, repo.participants)
	assert.Empty(t, repo.bridged)
}

func TestExecute_PlaceholderCustomerWithoutEmail(t *testing.T) {
	repo := newFakeModernRepo()
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{Reservation: sampleReservation()})
	require.NoError(t, err)

	// Без email всегда свежая placeholder-личность
	require.NotNil(t, resp.CustomerID)
	booking := repo.bookings[0]
	require.NotNil(t, booking.CustomerID)
	assert.Equal(t, *resp.CustomerID, *booking.CustomerID)
}

func TestExecute_ReusesCustomerByEmail(t *testing.T) {
	repo := newFakeModernRepo()
	existing := &domain.Customer{ID: uuid.New(), FullName: "Jordan Diaz", Email: ptr.Ptr("jordan@example.com")}
	repo.customers["jordan@example.com"] = existing
	uc := newTestUseCase(repo)

	rec := sampleReservation()
	rec.ContactEmail = ptr.Ptr("jordan@example.com")

	resp, err := uc.Execute(context.Background(), &Request{Reservation: rec})
	require.NoError(t, err)

	require.NotNil(t, resp.CustomerID)
	assert.Equal(t, existing.ID, *resp.CustomerID)
	// Новые клиенты не создавались
	assert.Len(t, repo.customers, 1)
}

func TestExecute_CustomerResolutionFailureIsNotFatal(t *testing.T) {
	repo := newFakeModernRepo()
	repo.findCustomerErr = errors.New("timeout")
	uc := newTestUseCase(repo)

	rec := sampleReservation()
	rec.ContactEmail = ptr.Ptr("jordan@example.com")

	resp, err := uc.Execute(context.Background(), &Request{Reservation: rec})
	require.NoError(t, err)

	// Бронь создана без ссылки на клиента, имя арендатора на участнике
	assert.Nil(t, resp.CustomerID)
	require.Len(t, repo.participants, 3)
	assert.Equal(t, "Jordan Diaz", repo.participants[0].DisplayName)
}

func TestExecute_BlankNameGivesUnknownRenter(t *testing.T) {
	repo := newFakeModernRepo()
	uc := newTestUseCase(repo)

	rec := sampleReservation()
	rec.CustomerName = "   "
	rec.PaxCount = 2

	_, err := uc.Execute(context.Background(), &Request{Reservation: rec})
	require.NoError(t, err)

	assert.Equal(t, domain.UnknownRenterName, repo.participants[0].DisplayName)
	assert.Equal(t, "Guest 1 of Unknown", repo.participants[1].DisplayName)
}
