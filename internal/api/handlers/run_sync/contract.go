package run_sync

import (
	"context"

	syncReservations "github.com/velodrive/VRB-SyncService/internal/usecase/sync_reservations"
)

type SyncUseCase interface {
	Execute(ctx context.Context, req *syncReservations.Request) (*syncReservations.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
