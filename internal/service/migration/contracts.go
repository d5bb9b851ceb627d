package migration

import (
	"context"
	"time"

	"github.com/velodrive/VRB-SyncService/internal/domain"
)

// LegacyRepository интерфейс read-only адаптера легаси-хранилища
type LegacyRepository interface {
	CountReservations(ctx context.Context, filter domain.LegacyReservationFilter) (int64, error)
}

// ModernRepository интерфейс современного хранилища
type ModernRepository interface {
	CountBridged(ctx context.Context, from, to time.Time) (int64, error)
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
