package domain

import (
	"strings"
	"time"

	"github.com/velodrive/VRB-SyncService/pkg/types"
)

// Статусы легаси-системы. Свободный словарь, регистр и пробелы не гарантированы,
// поэтому сравнение всегда через normalizeLegacyStatus
const (
	LegacyStatusPending   = "Pending"
	LegacyStatusConfirmed = "Confirmed"
	LegacyStatusCheckedIn = "Checked In"
	LegacyStatusCompleted = "Completed"
	LegacyStatusCancelled = "Cancelled"
	LegacyStatusNoShow    = "No Show"
)

// LegacyReservation плоская запись легаси-таблицы reservations
// Источник истины до миграции; этот сервис ее никогда не изменяет и не удаляет
type LegacyReservation struct {
	ID           int64
	CustomerName string
	ContactEmail *string
	PaxCount     int
	ResDate      time.Time
	ResTime      types.TimeString
	Location     string
	Status       string

	// Фиксированный набор колонок количества по легаси-кодам техники.
	// Закрытая структура вместо динамической map - набор колонок в легаси
	// таблице фиксирован и меняется только вместе с таблицей маппинга
	QtySB2 int
	QtySB4 int
	QtyATV int
	QtyJS1 int
	QtyJS2 int
	QtyEB  int

	CreatedAt time.Time
}

// VehicleQuantity количество техники одного легаси-кода
type VehicleQuantity struct {
	Code string
	Qty  int
}

// VehicleQuantities возвращает ненулевые количества в фиксированном порядке колонок
func (r *LegacyReservation) VehicleQuantities() []VehicleQuantity {
	all := []VehicleQuantity{
		{Code: "SB2", Qty: r.QtySB2},
		{Code: "SB4", Qty: r.QtySB4},
		{Code: "ATV", Qty: r.QtyATV},
		{Code: "JS1", Qty: r.QtyJS1},
		{Code: "JS2", Qty: r.QtyJS2},
		{Code: "EB", Qty: r.QtyEB},
	}

	result := make([]VehicleQuantity, 0, len(all))
	for _, q := range all {
		if q.Qty > 0 {
			result = append(result, q)
		}
	}
	return result
}

// IsCancelled возвращает true для отмененной легаси-записи
func (r *LegacyReservation) IsCancelled() bool {
	return normalizeLegacyStatus(r.Status) == normalizeLegacyStatus(LegacyStatusCancelled)
}

// ScheduledAt возвращает дату и время брони одним значением в указанной зоне
func (r *LegacyReservation) ScheduledAt(loc *time.Location) time.Time {
	t, err := time.Parse("15:04", r.ResTime.String())
	if err != nil {
		return time.Date(r.ResDate.Year(), r.ResDate.Month(), r.ResDate.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(r.ResDate.Year(), r.ResDate.Month(), r.ResDate.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// LegacyReservationFilter фильтр выборки легаси-записей
type LegacyReservationFilter struct {
	From             time.Time // Начало окна по res_date (включительно)
	To               time.Time // Конец окна по res_date (включительно)
	Location         *string   // Фильтр по точке проката (опционально)
	IncludeCancelled bool      // Включать ли отмененные записи
}

func normalizeLegacyStatus(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
