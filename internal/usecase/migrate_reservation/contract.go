package migrate_reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/velodrive/VRB-SyncService/internal/domain"
)

// ModernRepository интерфейс современного хранилища
type ModernRepository interface {
	CreateBooking(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CreateParticipants(ctx context.Context, participants []*domain.BookingParticipant) error
	CreateResources(ctx context.Context, resources []*domain.BookingResource) error
	FindBookingIDByLegacyID(ctx context.Context, legacyID int64) (uuid.UUID, error)
	FindLocationByName(ctx context.Context, name string) (*domain.Location, error)
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
// Вся запись одной легаси-записи идет в одной транзакции: полубронь
// без участников или техники - баг корректности, доска подавила бы
// легаси-строку, показывая неполную современную
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
