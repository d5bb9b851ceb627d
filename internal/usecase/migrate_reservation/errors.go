package migrate_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректной легаси-записи
	ErrInvalidInput = errors.New("migrate_reservation: invalid legacy record")

	// ErrAlreadyMigrated возвращается, когда legacy_id уже привязан к брони
	// Для планировщика это не сбой, а идемпотентный пропуск
	ErrAlreadyMigrated = errors.New("migrate_reservation: legacy record already migrated")

	// ErrUnknownVehicleCode возвращается для легаси-кода техники вне таблицы
	// Запись падает целиком: молчаливый пропуск кода нарушил бы
	// round-trip инвариант по количеству техники
	ErrUnknownVehicleCode = errors.New("migrate_reservation: unknown legacy vehicle code")

	// ErrUnknownLocation возвращается, когда метка точки проката
	// легаси-записи не сопоставляется ни с одной современной точкой
	ErrUnknownLocation = errors.New("migrate_reservation: unknown location label")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("migrate_reservation: internal error")
)
