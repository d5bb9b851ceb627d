package migrate_reservation

import (
	"fmt"

	"github.com/velodrive/VRB-SyncService/internal/domain"
)

// validateReservation валидирует легаси-запись перед миграцией
func validateReservation(rec *domain.LegacyReservation) error {
	if rec == nil {
		return fmt.Errorf("%w: reservation is required", ErrInvalidInput)
	}

	if rec.ID <= 0 {
		return fmt.Errorf("%w: res_id must be positive", ErrInvalidInput)
	}

	if rec.PaxCount < 1 {
		return fmt.Errorf("%w: pax_count must be at least 1 (res_id=%d)", ErrInvalidInput, rec.ID)
	}

	if rec.ResDate.IsZero() {
		return fmt.Errorf("%w: res_date is required (res_id=%d)", ErrInvalidInput, rec.ID)
	}

	if rec.Location == "" {
		return fmt.Errorf("%w: location is required (res_id=%d)", ErrInvalidInput, rec.ID)
	}

	return nil
}
