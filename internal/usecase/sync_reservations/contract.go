package sync_reservations

import (
	"context"
	"time"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	migrateReservation "github.com/velodrive/VRB-SyncService/internal/usecase/migrate_reservation"
)

// LegacyRepository интерфейс read-only адаптера легаси-хранилища
type LegacyRepository interface {
	FetchReservations(ctx context.Context, filter domain.LegacyReservationFilter) ([]*domain.LegacyReservation, error)
}

// Migrator интерфейс миграции одной легаси-записи
type Migrator interface {
	Execute(ctx context.Context, req *migrateReservation.Request) (*migrateReservation.Response, error)
}

// MetricsRecorder интерфейс счетчиков результатов синка (опционален, может быть nil)
type MetricsRecorder interface {
	IncSyncRecord(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
