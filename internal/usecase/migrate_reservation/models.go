package migrate_reservation

import (
	"github.com/google/uuid"

	"github.com/velodrive/VRB-SyncService/internal/domain"
)

// Request легаси-запись на миграцию
type Request struct {
	Reservation *domain.LegacyReservation
}

// Response результат миграции одной записи
type Response struct {
	BookingID    uuid.UUID  // ID созданной брони
	CustomerID   *uuid.UUID // Разрешенная личность арендатора (nil, если разрешение не удалось)
	Participants int        // Количество вставленных участников
	Resources    int        // Количество вставленных строк техники
}
