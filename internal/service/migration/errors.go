package migration

import "errors"

var (
	// ErrLegacyStore возвращается при сбое чтения легаси-хранилища
	ErrLegacyStore = errors.New("migration.service: legacy store error")

	// ErrModernStore возвращается при сбое чтения современного хранилища
	ErrModernStore = errors.New("migration.service: modern store error")
)
