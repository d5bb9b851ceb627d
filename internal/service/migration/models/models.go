package models

import "time"

// MigrationStatus прогресс миграции в текущем окне синхронизации
// Remaining позволяет оператору решить, нужен ли повторный прогон
type MigrationStatus struct {
	WindowFrom  time.Time
	WindowTo    time.Time
	LegacyTotal int64 // Активных легаси-записей в окне
	Migrated    int64 // Броней с мостовым ключом в окне
	Remaining   int64 // Остаток к миграции (не меньше нуля)
}
