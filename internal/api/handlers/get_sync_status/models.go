package get_sync_status

import (
	"github.com/velodrive/VRB-SyncService/internal/domain"
	"github.com/velodrive/VRB-SyncService/internal/service/migration/models"
)

// StatusResponse HTTP модель прогресса миграции
type StatusResponse struct {
	WindowFrom  string `json:"windowFrom"`
	WindowTo    string `json:"windowTo"`
	LegacyTotal int64  `json:"legacyTotal"`
	Migrated    int64  `json:"migrated"`
	Remaining   int64  `json:"remaining"`
}

// FromServiceModel конвертирует модель сервиса в HTTP response
func FromServiceModel(status *models.MigrationStatus) *StatusResponse {
	return &StatusResponse{
		WindowFrom:  status.WindowFrom.Format(domain.DateFormat),
		WindowTo:    status.WindowTo.Format(domain.DateFormat),
		LegacyTotal: status.LegacyTotal,
		Migrated:    status.Migrated,
		Remaining:   status.Remaining,
	}
}
