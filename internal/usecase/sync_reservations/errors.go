package sync_reservations

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах запуска
	ErrInvalidInput = errors.New("sync_reservations: invalid input")

	// ErrLegacyStore возвращается, когда выборка из легаси-хранилища
	// не удалась. Фатально для всего прогона: пустой результат вместо
	// ошибки маскировал бы сбой синка под "сегодня нет броней"
	ErrLegacyStore = errors.New("sync_reservations: legacy store fetch failed")
)
