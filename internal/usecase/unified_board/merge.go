package unified_board

import (
	"sort"
	"strconv"
	"time"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	"github.com/velodrive/VRB-SyncService/internal/vehicletypes"
	"github.com/velodrive/VRB-SyncService/pkg/types"
)

// merge сливает оба хранилища в один набор строк легаси-формы
//
// Правило подавления: легаси-запись, чей идентификатор присутствует среди
// мостовых ключей выбранных броней, на доску не попадает - мигрированная
// запись не должна появляться дважды
func (uc *UseCase) merge(
	date time.Time,
	location *domain.Location,
	tz *time.Location,
	legacyRecords []*domain.LegacyReservation,
	bookings []*domain.Booking,
) []*domain.UnifiedRow {
	bridged := make(map[int64]struct{}, len(bookings))
	for _, b := range bookings {
		if b.LegacyID != nil {
			bridged[*b.LegacyID] = struct{}{}
		}
	}

	rows := make([]*domain.UnifiedRow, 0, len(legacyRecords)+len(bookings))

	for _, rec := range legacyRecords {
		if _, shadowed := bridged[rec.ID]; shadowed {
			continue
		}
		rows = append(rows, uc.rowFromLegacy(date, location, rec))
	}

	for _, b := range bookings {
		rows = append(rows, uc.rowFromBooking(date, location, tz, b))
	}

	// Порядок не контрактный, но стабильный - по времени, затем по источнику и ключу
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StartTime != rows[j].StartTime {
			return rows[i].StartTime.IsBefore(rows[j].StartTime)
		}
		return rowKey(rows[i]) < rowKey(rows[j])
	})

	return rows
}

// rowFromLegacy строка из немигрированной легаси-записи, поля как есть
func (uc *UseCase) rowFromLegacy(date time.Time, location *domain.Location, rec *domain.LegacyReservation) *domain.UnifiedRow {
	counts := make(map[string]int)
	for _, q := range rec.VehicleQuantities() {
		counts[q.Code] += q.Qty
	}

	return &domain.UnifiedRow{
		Source:        domain.RowSourceLegacy,
		LegacyID:      &rec.ID,
		CustomerName:  rec.CustomerName,
		PaxCount:      rec.PaxCount,
		Date:          date,
		StartTime:     rec.ResTime,
		Location:      location.Name,
		VehicleCounts: counts,
		Status:        rec.Status,
	}
}

// rowFromBooking синтезирует строку легаси-формы из современной брони
func (uc *UseCase) rowFromBooking(date time.Time, location *domain.Location, tz *time.Location, b *domain.Booking) *domain.UnifiedRow {
	counts := make(map[string]int)
	for _, res := range b.Resources {
		code := vehicletypes.ToLegacyCode(res.VehicleTypeID)
		if code == vehicletypes.LegacyCodeOther && !vehicletypes.IsKnownLegacyCode(res.VehicleTypeID) {
			// Lossy по дизайну: современный тип без легаси-аналога
			uc.logger.Warn("UnifiedBoard: booking=%s has vehicle type %q with no legacy code, shown as %q",
				b.ID, res.VehicleTypeID, vehicletypes.LegacyCodeOther)
		}
		counts[code] += res.Quantity
	}

	bookingID := b.ID
	row := &domain.UnifiedRow{
		Source:        domain.RowSourceModern,
		LegacyID:      b.LegacyID,
		BookingID:     &bookingID,
		CustomerName:  displayName(b),
		PaxCount:      b.TotalPax,
		Date:          date,
		StartTime:     types.NewTimeString(b.StartsAt.In(tz)),
		Location:      location.Name,
		VehicleCounts: counts,
		Status:        domain.LegacyStatusLabel(b.Status),
	}
	return row
}

// displayName имя для доски: основной арендатор, затем имя группы, затем "Unknown"
func displayName(b *domain.Booking) string {
	if renter := b.PrimaryRenter(); renter != nil && renter.DisplayName != "" {
		return renter.DisplayName
	}
	if b.PartyName != nil && *b.PartyName != "" {
		return *b.PartyName
	}
	return domain.UnknownRenterName
}

// rowKey стабильный ключ сортировки внутри одного времени
func rowKey(r *domain.UnifiedRow) string {
	if r.BookingID != nil {
		return "m:" + r.BookingID.String()
	}
	if r.LegacyID != nil {
		return "l:" + strconv.FormatInt(*r.LegacyID, 10)
	}
	return ""
}
