package unified_board

import (
	"time"

	"github.com/velodrive/VRB-SyncService/internal/domain"
)

// Request запрос доски диспетчера
type Request struct {
	Date       time.Time // Дата (без времени)
	LocationID int64     // Точка проката
}

// Response объединенная доска на дату
type Response struct {
	Date     time.Time
	Location *domain.Location
	Rows     []*domain.UnifiedRow
}
