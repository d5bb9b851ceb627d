package unified_board

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах запроса
	ErrInvalidInput = errors.New("unified_board: invalid input")

	// ErrLocationNotFound возвращается для неизвестной точки проката
	ErrLocationNotFound = errors.New("unified_board: location not found")

	// ErrLegacyStore возвращается при сбое чтения легаси-хранилища
	ErrLegacyStore = errors.New("unified_board: legacy store fetch failed")

	// ErrModernStore возвращается при сбое чтения современного хранилища.
	// Тихая деградация до "ноль современных броней" недопустима:
	// мигрированные брони исчезли бы с доски, а их легаси-строки
	// остались бы подавленными
	ErrModernStore = errors.New("unified_board: modern store fetch failed")
)
