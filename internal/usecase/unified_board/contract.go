package unified_board

import (
	"context"
	"time"

	"github.com/velodrive/VRB-SyncService/internal/domain"
)

// LegacyRepository интерфейс read-only адаптера легаси-хранилища
type LegacyRepository interface {
	FetchReservations(ctx context.Context, filter domain.LegacyReservationFilter) ([]*domain.LegacyReservation, error)
}

// ModernRepository интерфейс современного хранилища
type ModernRepository interface {
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	GetBoardBookings(ctx context.Context, from, to time.Time, locationID int64) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
