package sync_reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	migrateReservation "github.com/velodrive/VRB-SyncService/internal/usecase/migrate_reservation"
)

// Params параметры batch-джоба из конфигурации
type Params struct {
	HorizonDays    int           // Окно выборки: сегодня + HorizonDays
	BatchTimeout   time.Duration // Бюджет времени одного прогона
	MaxConcurrency int           // Ограничение параллельных миграций
}

// UseCase use case прогона синхронизации легаси-записей
// Без блокировок между хранилищами: от двойной миграции при
// перекрывающихся запусках защищает уникальный индекс по legacy_id
type UseCase struct {
	legacyRepo   LegacyRepository
	migrator     Migrator
	params       Params
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil, если метрики выключены
func NewUseCase(
	legacyRepo LegacyRepository,
	migrator Migrator,
	params Params,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	if params.HorizonDays <= 0 {
		params.HorizonDays = domain.DefaultSyncHorizonDays
	}
	if params.BatchTimeout <= 0 {
		params.BatchTimeout = domain.DefaultSyncBatchTimeoutSec * time.Second
	}
	if params.MaxConcurrency <= 0 {
		params.MaxConcurrency = domain.DefaultSyncMaxConcurrency
	}

	return &UseCase{
		legacyRepo:   legacyRepo,
		migrator:     migrator,
		params:       params,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// recordResult результат обработки одной записи внутри прогона
type recordResult struct {
	legacyID int64
	result   string
	reason   string
}

// Execute выполняет один прогон синхронизации
// Каждая запись мигрирует независимо: сбой одной не прерывает batch.
// Прогон ограничен бюджетом времени; не успевшие записи попадают
// в отчет как сбои с причиной исчерпания бюджета
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	horizon := uc.params.HorizonDays
	if req != nil && req.HorizonDays != nil {
		if *req.HorizonDays < 0 {
			return nil, fmt.Errorf("%w: horizonDays must not be negative", ErrInvalidInput)
		}
		horizon = *req.HorizonDays
	}

	now := uc.timeProvider.Now().UTC()
	windowFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowTo := windowFrom.AddDate(0, 0, horizon)

	uc.logger.Info("SyncReservations: starting run, window=%s..%s, budget=%s, concurrency=%d",
		windowFrom.Format(domain.DateFormat), windowTo.Format(domain.DateFormat),
		uc.params.BatchTimeout, uc.params.MaxConcurrency)

	runCtx, cancel := context.WithTimeout(ctx, uc.params.BatchTimeout)
	defer cancel()

	records, err := uc.legacyRepo.FetchReservations(runCtx, domain.LegacyReservationFilter{
		From:             windowFrom,
		To:               windowTo,
		IncludeCancelled: false,
	})
	if err != nil {
		uc.logger.Error("SyncReservations: legacy fetch failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrLegacyStore, err)
	}

	uc.logger.Info("SyncReservations: %d legacy records in window", len(records))

	results := make([]recordResult, len(records))

	g := new(errgroup.Group)
	g.SetLimit(uc.params.MaxConcurrency)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			results[i] = uc.migrateOne(runCtx, rec)
			// Ошибки записи изолированы и собраны в results,
			// группу не прерываем
			return nil
		})
	}
	_ = g.Wait()

	resp := uc.tally(windowFrom, windowTo, results)

	uc.logger.Info("SyncReservations: run complete, processed=%d succeeded=%d skipped=%d failed=%d",
		resp.Processed, resp.Succeeded, resp.Skipped, resp.Failed)

	return resp, nil
}

func (uc *UseCase) migrateOne(ctx context.Context, rec *domain.LegacyReservation) recordResult {
	// Бюджет прогона исчерпан: запись не трогаем, отчитываемся об остатке
	if ctx.Err() != nil {
		return recordResult{legacyID: rec.ID, result: resultBudgetExhausted, reason: "batch time budget exhausted"}
	}

	_, err := uc.migrator.Execute(ctx, &migrateReservation.Request{Reservation: rec})

	switch {
	case err == nil:
		return recordResult{legacyID: rec.ID, result: resultSucceeded}
	case errors.Is(err, migrateReservation.ErrAlreadyMigrated):
		return recordResult{legacyID: rec.ID, result: resultSkipped}
	case errors.Is(err, context.DeadlineExceeded):
		return recordResult{legacyID: rec.ID, result: resultBudgetExhausted, reason: "batch time budget exhausted"}
	default:
		uc.logger.Error("SyncReservations: res_id=%d migration failed: %v", rec.ID, err)
		return recordResult{legacyID: rec.ID, result: resultFailed, reason: err.Error()}
	}
}

func (uc *UseCase) tally(from, to time.Time, results []recordResult) *Response {
	resp := &Response{
		WindowFrom: from,
		WindowTo:   to,
		Processed:  len(results),
		Failures:   make([]Failure, 0),
	}

	for _, r := range results {
		if uc.metrics != nil {
			uc.metrics.IncSyncRecord(r.result)
		}
		switch r.result {
		case resultSucceeded:
			resp.Succeeded++
		case resultSkipped:
			resp.Skipped++
		default:
			resp.Failed++
			resp.Failures = append(resp.Failures, Failure{LegacyID: r.legacyID, Reason: r.reason})
		}
	}

	return resp
}
