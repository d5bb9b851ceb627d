package modern

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("modern.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("modern.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("modern.repository: failed to scan row")

	// ErrLegacyIDConflict возвращается при попытке вставить бронь
	// с legacy_id, который уже привязан к другой брони.
	// Уникальный индекс по legacy_id - единственный механизм защиты
	// от двойной миграции при параллельных запусках синка
	ErrLegacyIDConflict = errors.New("modern.repository: legacy_id already bridged")

	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("modern.repository: booking not found")

	// ErrLocationNotFound возвращается, когда точка проката не найдена
	ErrLocationNotFound = errors.New("modern.repository: location not found")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("modern.repository: customer not found")
)
