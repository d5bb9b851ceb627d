package unified_board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	modernRepo "github.com/velodrive/VRB-SyncService/internal/infra/storage/modern"
)

// UseCase use case сборки объединенной доски диспетчера
// Читает оба хранилища параллельно и сливает их в один набор строк
// легаси-формы; мигрированные легаси-записи подавляются по мостовому ключу
type UseCase struct {
	legacyRepo LegacyRepository
	modernRepo ModernRepository
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	legacyRepo LegacyRepository,
	modernRepo ModernRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		legacyRepo: legacyRepo,
		modernRepo: modernRepo,
		logger:     logger,
	}
}

// Execute собирает доску на дату для точки проката
// Сбой любого из хранилищ фатален для запроса: уверенно-неправильная
// неполная доска хуже громкой ошибки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UnifiedBoard: validation failed: %v", err)
		return nil, err
	}

	location, err := uc.modernRepo.GetLocation(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, modernRepo.ErrLocationNotFound) {
			uc.logger.Warn("UnifiedBoard: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("UnifiedBoard: location lookup failed: %v", err)
		return nil, fmt.Errorf("%w: location lookup: %v", ErrModernStore, err)
	}

	tz, err := time.LoadLocation(location.Timezone)
	if err != nil {
		uc.logger.Warn("UnifiedBoard: location %q has invalid timezone %q, using UTC",
			location.Name, location.Timezone)
		tz = time.UTC
	}

	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, tz)
	dayEnd := dayStart.AddDate(0, 0, 1)

	uc.logger.Info("UnifiedBoard: date=%s, location=%q (id=%d)",
		req.Date.Format(domain.DateFormat), location.Name, location.ID)

	// Независимые чтения двух хранилищ выполняются параллельно,
	// чтобы не суммировать их задержки
	var (
		legacyRecords []*domain.LegacyReservation
		bookings      []*domain.Booking
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := uc.legacyRepo.FetchReservations(gctx, domain.LegacyReservationFilter{
			From:             req.Date,
			To:               req.Date,
			Location:         &location.Name,
			IncludeCancelled: false,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLegacyStore, err)
		}
		legacyRecords = records
		return nil
	})

	g.Go(func() error {
		result, err := uc.modernRepo.GetBoardBookings(gctx, dayStart, dayEnd, location.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrModernStore, err)
		}
		bookings = result
		return nil
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("UnifiedBoard: store fetch failed: %v", err)
		return nil, err
	}

	rows := uc.merge(req.Date, location, tz, legacyRecords, bookings)

	uc.logger.Info("UnifiedBoard: %d rows (%d legacy, %d modern) for %s at %q",
		len(rows), len(legacyRecords), len(bookings), req.Date.Format(domain.DateFormat), location.Name)

	return &Response{
		Date:     req.Date,
		Location: location,
		Rows:     rows,
	}, nil
}

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}
	return nil
}
