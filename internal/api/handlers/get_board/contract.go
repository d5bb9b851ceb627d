package get_board

import (
	"context"

	unifiedBoard "github.com/velodrive/VRB-SyncService/internal/usecase/unified_board"
)

type BoardUseCase interface {
	Execute(ctx context.Context, req *unifiedBoard.Request) (*unifiedBoard.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
