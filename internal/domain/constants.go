package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// GuestNameFormat шаблон имени пассажира-заглушки: "Guest 1 of Ann"
// Личности гостей на момент миграции неизвестны, но инвариант размера
// группы (pax_count участников) должен сохраняться
const GuestNameFormat = "Guest %d of %s"

// UnknownRenterName имя по умолчанию, когда определить арендатора не удалось
const UnknownRenterName = "Unknown"

// Ключи метаданных провенанса мигрированной брони
const (
	MetaKeyLegacyStatus       = "legacy_status"
	MetaKeyLegacyVehicleCodes = "legacy_vehicle_codes"
	MetaKeyMigratedAt         = "migrated_at"
)

// Default sync job parameters
const (
	DefaultSyncHorizonDays     = 7
	DefaultSyncMaxConcurrency  = 4
	DefaultSyncBatchTimeoutSec = 60
)
