package get_sync_status

import (
	"context"

	"github.com/velodrive/VRB-SyncService/internal/service/migration/models"
)

type MigrationService interface {
	Status(ctx context.Context, horizonDays int) (*models.MigrationStatus, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
