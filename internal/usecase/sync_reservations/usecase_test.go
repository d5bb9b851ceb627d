package sync_reservations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	migrateReservation "github.com/velodrive/VRB-SyncService/internal/usecase/migrate_reservation"
	"github.com/velodrive/VRB-SyncService/pkg/ptr"
)

type fakeLegacyRepo struct {
	records []*domain.LegacyReservation
	err     error

	gotFilter domain.LegacyReservationFilter
}

func (f *fakeLegacyRepo) FetchReservations(_ context.Context, filter domain.LegacyReservationFilter) ([]*domain.LegacyReservation, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

// fakeMigrator потокобезопасный: прогон зовет его из нескольких горутин
type fakeMigrator struct {
	mu       sync.Mutex
	migrated map[int64]bool
	errs     map[int64]error
	calls    int
}

func newFakeMigrator() *fakeMigrator {
	return &fakeMigrator{
		migrated: map[int64]bool{},
		errs:     map[int64]error{},
	}
}

func (f *fakeMigrator) Execute(_ context.Context, req *migrateReservation.Request) (*migrateReservation.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	id := req.Reservation.ID
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	if f.migrated[id] {
		return nil, migrateReservation.ErrAlreadyMigrated
	}
	f.migrated[id] = true
	return &migrateReservation.Response{}, nil
}

type countingMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *countingMetrics) IncSyncRecord(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = map[string]int{}
	}
	m.results[result]++
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func legacyRecord(id int64) *domain.LegacyReservation {
	return &domain.LegacyReservation{
		ID:           id,
		CustomerName: "Test Renter",
		PaxCount:     1,
		ResDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Location:     "Moab Main",
		Status:       "Confirmed",
		QtyATV:       1,
	}
}

func newTestUseCase(repo *fakeLegacyRepo, migrator Migrator, metrics MetricsRecorder) *UseCase {
	uc := NewUseCase(repo, migrator, Params{
		HorizonDays:    7,
		BatchTimeout:   time.Minute,
		MaxConcurrency: 4,
	}, metrics, noopLogger{})
	uc.timeProvider = fixedTime{t: time.Date(2026, 8, 27, 15, 42, 0, 0, time.UTC)}
	return uc
}

func TestExecute_Window(t *testing.T) {
	repo := &fakeLegacyRepo{}
	uc := newTestUseCase(repo, newFakeMigrator(), nil)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	// Окно UTC-полночь сегодня .. сегодня + horizon, отмененные исключены
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), resp.WindowFrom)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), resp.WindowTo)
	assert.Equal(t, resp.WindowFrom, repo.gotFilter.From)
	assert.Equal(t, resp.WindowTo, repo.gotFilter.To)
	assert.False(t, repo.gotFilter.IncludeCancelled)
}

func TestExecute_HorizonOverride(t *testing.T) {
	repo := &fakeLegacyRepo{}
	uc := newTestUseCase(repo, newFakeMigrator(), nil)

	resp, err := uc.Execute(context.Background(), &Request{HorizonDays: ptr.Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), resp.WindowTo)

	_, err = uc.Execute(context.Background(), &Request{HorizonDays: ptr.Ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_Tally(t *testing.T) {
	repo := &fakeLegacyRepo{records: []*domain.LegacyReservation{
		legacyRecord(1), legacyRecord(2), legacyRecord(3), legacyRecord(4),
	}}
	migrator := newFakeMigrator()
	migrator.migrated[2] = true // уже мигрирована прошлым пульсом
	migrator.errs[4] = errors.New("boom")
	metrics := &countingMetrics{}

	uc := newTestUseCase(repo, migrator, metrics)

	resp, err := uc.Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Processed)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 1, resp.Failed)

	require.Len(t, resp.Failures, 1)
	assert.Equal(t, int64(4), resp.Failures[0].LegacyID)
	assert.Equal(t, "boom", resp.Failures[0].Reason)

	assert.Equal(t, 2, metrics.results["succeeded"])
	assert.Equal(t, 1, metrics.results["skipped"])
	assert.Equal(t, 1, metrics.results["failed"])
}

func TestExecute_PerRecordIsolation(t *testing.T) {
	// Сбой одной записи не прерывает остальные
	records := make([]*domain.LegacyReservation, 0, 10)
	for i := int64(1); i <= 10; i++ {
		records = append(records, legacyRecord(i))
	}
	repo := &fakeLegacyRepo{records: records}
	migrator := newFakeMigrator()
	migrator.errs[1] = errors.New("first record broken")

	uc := newTestUseCase(repo, migrator, nil)

	resp, err := uc.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, 10, migrator.calls)
}

func TestExecute_ConcurrentRunsDeduplicate(t *testing.T) {
	// Два перекрывающихся прогона над общим migrator: каждая запись
	// мигрирует ровно один раз, дубликаты отчитываются как пропуски
	records := make([]*domain.LegacyReservation, 0, 20)
	for i := int64(1); i <= 20; i++ {
		records = append(records, legacyRecord(i))
	}
	migrator := newFakeMigrator()

	ucA := newTestUseCase(&fakeLegacyRepo{records: records}, migrator, nil)
	ucB := newTestUseCase(&fakeLegacyRepo{records: records}, migrator, nil)

	var wg sync.WaitGroup
	responses := make([]*Response, 2)
	for i, uc := range []*UseCase{ucA, ucB} {
		wg.Add(1)
		go func(i int, uc *UseCase) {
			defer wg.Done()
			resp, err := uc.Execute(context.Background(), nil)
			require.NoError(t, err)
			responses[i] = resp
		}(i, uc)
	}
	wg.Wait()

	totalSucceeded := responses[0].Succeeded + responses[1].Succeeded
	totalSkipped := responses[0].Skipped + responses[1].Skipped
	assert.Equal(t, 20, totalSucceeded)
	assert.Equal(t, 20, totalSkipped)
	assert.Len(t, migrator.migrated, 20)
}

func TestExecute_LegacyStoreFailure(t *testing.T) {
	repo := &fakeLegacyRepo{err: errors.New("connection refused")}
	uc := newTestUseCase(repo, newFakeMigrator(), nil)

	_, err := uc.Execute(context.Background(), nil)
	require.ErrorIs(t, err, ErrLegacyStore)
}

func TestExecute_BudgetExhaustion(t *testing.T) {
	// Родительский контекст уже отменен: все записи отчитываются
	// как не успевшие в бюджет, миграция не вызывается
	repo := &fakeLegacyRepo{records: []*domain.LegacyReservation{
		legacyRecord(1), legacyRecord(2),
	}}
	migrator := newFakeMigrator()
	uc := newTestUseCase(repo, migrator, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := uc.Execute(ctx, nil)
	// Выборка в fake не смотрит на контекст, поэтому прогон доходит до записей
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Succeeded)
	assert.Equal(t, 2, resp.Failed)
	assert.Equal(t, 0, migrator.calls)
	for _, f := range resp.Failures {
		assert.Equal(t, "batch time budget exhausted", f.Reason)
	}
}
