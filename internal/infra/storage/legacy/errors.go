package legacy

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("legacy.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	// Включает недоступность легаси-хранилища; вызывающие обязаны
	// поднимать эту ошибку, а не подменять пустой выборкой
	ErrExecQuery = errors.New("legacy.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования строки
	// Отдельно от ErrExecQuery: кривая строка - проблема данных,
	// а не соединения
	ErrScanRow = errors.New("legacy.repository: failed to scan row")
)
