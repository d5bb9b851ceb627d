package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/velodrive/VRB-SyncService/pkg/types"
)

// RowSource источник строки объединенной доски
type RowSource string

const (
	// RowSourceLegacy строка взята напрямую из немигрированной легаси-записи
	RowSourceLegacy RowSource = "legacy"
	// RowSourceModern строка синтезирована из современной брони
	RowSourceModern RowSource = "modern"
)

// UnifiedRow строка "доски на сегодня" в легаси-форме
// Временная view-модель: создается заново на каждый запрос и нигде не хранится
type UnifiedRow struct {
	Source       RowSource
	LegacyID     *int64
	BookingID    *uuid.UUID
	CustomerName string
	PaxCount     int
	Date         time.Time
	// StartTime местное гражданское время точки проката
	StartTime types.TimeString
	Location  string
	// VehicleCounts количество техники по легаси-кодам
	VehicleCounts map[string]int
	// Status в легаси-словаре для единообразного потребления
	Status string
}

// TotalVehicles суммарное количество техники в строке
func (r *UnifiedRow) TotalVehicles() int {
	total := 0
	for _, qty := range r.VehicleCounts {
		total += qty
	}
	return total
}
