package migrate_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	modernRepo "github.com/velodrive/VRB-SyncService/internal/infra/storage/modern"
	"github.com/velodrive/VRB-SyncService/internal/vehicletypes"
)

// UseCase use case миграции одной легаси-записи в 3-уровневую модель
type UseCase struct {
	modernRepo   ModernRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repo ModernRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		modernRepo:   repo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute мигрирует одну легаси-запись
// Идемпотентен по legacy_id: повторный вызов для уже мигрированной записи
// возвращает ErrAlreadyMigrated. Легаси-хранилище не изменяется никогда
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	rec := req.Reservation

	// 1. Валидация легаси-записи
	if err := validateReservation(rec); err != nil {
		uc.logger.Warn("MigrateReservation: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("MigrateReservation: res_id=%d, customer=%q, pax=%d, date=%s, location=%q",
		rec.ID, rec.CustomerName, rec.PaxCount, rec.ResDate.Format(domain.DateFormat), rec.Location)

	// 2. Быстрый путь идемпотентности: запись уже мигрирована в прошлый пульс.
	// От гонки параллельных планировщиков защищает не эта проверка,
	// а уникальный индекс по legacy_id при вставке (шаг 7)
	if existingID, err := uc.modernRepo.FindBookingIDByLegacyID(ctx, rec.ID); err == nil {
		uc.logger.Info("MigrateReservation: res_id=%d already bridged to booking=%s, skipping", rec.ID, existingID)
		return nil, ErrAlreadyMigrated
	} else if !errors.Is(err, modernRepo.ErrBookingNotFound) {
		uc.logger.Error("MigrateReservation: res_id=%d bridge lookup failed: %v", rec.ID, err)
		return nil, fmt.Errorf("%w: bridge lookup: %v", ErrInternal, err)
	}

	// 3. Статус: неизвестный словарь легаси дает консервативный needs_review
	status, known := domain.MapLegacyStatus(rec.Status)
	if !known {
		uc.logger.Warn("MigrateReservation: res_id=%d has unknown legacy status %q, mapped to %s",
			rec.ID, rec.Status, status)
	}

	// 4. Техника: неизвестный легаси-код - ошибка записи, не пропуск
	resources, codeSummary, err := uc.buildResources(rec)
	if err != nil {
		uc.logger.Warn("MigrateReservation: res_id=%d vehicle mapping failed: %v", rec.ID, err)
		return nil, err
	}

	// 5. Точка проката
	location, err := uc.modernRepo.FindLocationByName(ctx, rec.Location)
	if err != nil {
		if errors.Is(err, modernRepo.ErrLocationNotFound) {
			uc.logger.Warn("MigrateReservation: res_id=%d references unknown location %q", rec.ID, rec.Location)
			return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, rec.Location)
		}
		uc.logger.Error("MigrateReservation: res_id=%d location lookup failed: %v", rec.ID, err)
		return nil, fmt.Errorf("%w: location lookup: %v", ErrInternal, err)
	}

	// 6. Разрешение личности клиента - вне транзакции и неблокирующее:
	// бронь не должна падать из-за неполного разрешения личности
	customerID := uc.resolveCustomer(ctx, rec)

	now := uc.timeProvider.Now().UTC()

	tz, tzErr := time.LoadLocation(location.Timezone)
	if tzErr != nil {
		uc.logger.Warn("MigrateReservation: location %q has invalid timezone %q, using UTC",
			location.Name, location.Timezone)
		tz = time.UTC
	}

	booking := &domain.Booking{
		LocationID: location.ID,
		CustomerID: customerID,
		LegacyID:   &rec.ID,
		StartsAt:   rec.ScheduledAt(tz),
		Status:     status,
		TotalPax:   rec.PaxCount,
		Metadata: map[string]string{
			domain.MetaKeyLegacyStatus:       rec.Status,
			domain.MetaKeyLegacyVehicleCodes: codeSummary,
			domain.MetaKeyMigratedAt:         now.Format(time.RFC3339),
		},
	}

	var result *domain.Booking

	// 7. Бронь, участники и техника в одной транзакции:
	// любой сбой откатывает запись целиком
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.modernRepo.CreateBooking(txCtx, booking)
		if err != nil {
			if errors.Is(err, modernRepo.ErrLegacyIDConflict) {
				// Параллельный планировщик успел первым
				return ErrAlreadyMigrated
			}
			return fmt.Errorf("%w: create booking: %v", ErrInternal, err)
		}

		participants := buildParticipants(created, rec, customerID)
		if err := uc.modernRepo.CreateParticipants(txCtx, participants); err != nil {
			return fmt.Errorf("%w: create participants: %v", ErrInternal, err)
		}

		for _, res := range resources {
			res.BookingID = created.ID
		}
		if err := uc.modernRepo.CreateResources(txCtx, resources); err != nil {
			return fmt.Errorf("%w: create resources: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAlreadyMigrated) {
			uc.logger.Info("MigrateReservation: res_id=%d bridged by concurrent run, skipping", rec.ID)
			return nil, ErrAlreadyMigrated
		}
		uc.logger.Error("MigrateReservation: res_id=%d migration failed: %v", rec.ID, err)
		return nil, err
	}

	uc.logger.Info("MigrateReservation: res_id=%d migrated to booking=%s (%d participants, %d resource rows)",
		rec.ID, result.ID, rec.PaxCount, len(resources))

	return &Response{
		BookingID:    result.ID,
		CustomerID:   customerID,
		Participants: rec.PaxCount,
		Resources:    len(resources),
	}, nil
}

// buildResources переводит колонки количества через таблицу кодов
// Возвращает строки техники и сводку исходных кодов для метаданных
func (uc *UseCase) buildResources(rec *domain.LegacyReservation) ([]*domain.BookingResource, string, error) {
	quantities := rec.VehicleQuantities()
	resources := make([]*domain.BookingResource, 0, len(quantities))
	summary := make([]string, 0, len(quantities))

	for _, q := range quantities {
		typeID, err := vehicletypes.ToModernTypeID(q.Code)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %q (res_id=%d)", ErrUnknownVehicleCode, q.Code, rec.ID)
		}
		resources = append(resources, &domain.BookingResource{
			VehicleTypeID: typeID,
			Quantity:      q.Qty,
		})
		summary = append(summary, fmt.Sprintf("%s:%d", q.Code, q.Qty))
	}

	return resources, strings.Join(summary, ","), nil
}

// buildParticipants собирает участников: ровно один PRIMARY_RENTER
// и pax_count-1 пассажиров с синтезированными именами-заглушками
func buildParticipants(booking *domain.Booking, rec *domain.LegacyReservation, customerID *uuid.UUID) []*domain.BookingParticipant {
	renter := renterName(rec)

	participants := make([]*domain.BookingParticipant, 0, rec.PaxCount)
	participants = append(participants, &domain.BookingParticipant{
		BookingID:   booking.ID,
		Role:        domain.RolePrimaryRenter,
		CustomerID:  customerID,
		DisplayName: renter,
	})

	for k := 1; k < rec.PaxCount; k++ {
		participants = append(participants, &domain.BookingParticipant{
			BookingID:   booking.ID,
			Role:        domain.RolePassenger,
			DisplayName: fmt.Sprintf(domain.GuestNameFormat, k, renter),
		})
	}

	return participants
}

func renterName(rec *domain.LegacyReservation) string {
	name := strings.TrimSpace(rec.CustomerName)
	if name == "" {
		return domain.UnknownRenterName
	}
	return name
}
