package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	"github.com/velodrive/VRB-SyncService/internal/service/migration/models"
)

// Service сервис отчета о прогрессе миграции
type Service struct {
	legacyRepo   LegacyRepository
	modernRepo   ModernRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	legacyRepo LegacyRepository,
	modernRepo ModernRepository,
	logger Logger,
) *Service {
	return &Service{
		legacyRepo:   legacyRepo,
		modernRepo:   modernRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Status считает прогресс миграции в окне "сегодня + horizonDays"
// Окно то же, что у прогона синхронизации, чтобы цифры были сопоставимы
func (s *Service) Status(ctx context.Context, horizonDays int) (*models.MigrationStatus, error) {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultSyncHorizonDays
	}

	now := s.timeProvider.Now().UTC()
	windowFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowTo := windowFrom.AddDate(0, 0, horizonDays)

	legacyTotal, err := s.legacyRepo.CountReservations(ctx, domain.LegacyReservationFilter{
		From:             windowFrom,
		To:               windowTo,
		IncludeCancelled: false,
	})
	if err != nil {
		s.logger.Error("MigrationStatus: legacy count failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrLegacyStore, err)
	}

	// Окно CountBridged полуоткрытое по starts_at, захватываем весь последний день
	migrated, err := s.modernRepo.CountBridged(ctx, windowFrom, windowTo.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("MigrationStatus: modern count failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrModernStore, err)
	}

	remaining := legacyTotal - migrated
	if remaining < 0 {
		remaining = 0
	}

	s.logger.Info("MigrationStatus: window=%s..%s legacy=%d migrated=%d remaining=%d",
		windowFrom.Format(domain.DateFormat), windowTo.Format(domain.DateFormat),
		legacyTotal, migrated, remaining)

	return &models.MigrationStatus{
		WindowFrom:  windowFrom,
		WindowTo:    windowTo,
		LegacyTotal: legacyTotal,
		Migrated:    migrated,
		Remaining:   remaining,
	}, nil
}
