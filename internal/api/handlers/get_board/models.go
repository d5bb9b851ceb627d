package get_board

import (
	"github.com/velodrive/VRB-SyncService/internal/domain"
	unifiedBoard "github.com/velodrive/VRB-SyncService/internal/usecase/unified_board"
)

// BoardResponse HTTP модель объединенной доски
type BoardResponse struct {
	Date       string               `json:"date"`
	LocationID int64                `json:"locationId"`
	Location   string               `json:"location"`
	Rows       []UnifiedRowResponse `json:"rows"`
}

// UnifiedRowResponse строка доски в легаси-форме
type UnifiedRowResponse struct {
	Source       string         `json:"source"`
	LegacyID     *int64         `json:"legacyId,omitempty"`
	BookingID    *string        `json:"bookingId,omitempty"`
	CustomerName string         `json:"customerName"`
	PaxCount     int            `json:"paxCount"`
	StartTime    string         `json:"startTime"`
	Status       string         `json:"status"`
	Vehicles     map[string]int `json:"vehicles"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *unifiedBoard.Response) *BoardResponse {
	rows := make([]UnifiedRowResponse, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		r := UnifiedRowResponse{
			Source:       string(row.Source),
			LegacyID:     row.LegacyID,
			CustomerName: row.CustomerName,
			PaxCount:     row.PaxCount,
			StartTime:    row.StartTime.String(),
			Status:       row.Status,
			Vehicles:     row.VehicleCounts,
		}
		if row.BookingID != nil {
			id := row.BookingID.String()
			r.BookingID = &id
		}
		rows = append(rows, r)
	}

	return &BoardResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		LocationID: resp.Location.ID,
		Location:   resp.Location.Name,
		Rows:       rows,
	}
}
