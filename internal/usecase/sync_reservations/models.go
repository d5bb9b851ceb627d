package sync_reservations

import "time"

// Request параметры запуска прогона синхронизации
type Request struct {
	// HorizonDays переопределение горизонта окна (опционально)
	HorizonDays *int
}

// Response сводка прогона для оператора
// Failures позволяют перезапустить синк по остатку, не трогая успехи
type Response struct {
	WindowFrom time.Time
	WindowTo   time.Time
	Processed  int // Всего записей в окне
	Succeeded  int // Успешно мигрировано этим прогоном
	Skipped    int // Уже были мигрированы (идемпотентный пропуск)
	Failed     int // Сбои, изолированные на уровне записи
	Failures   []Failure
}

// Failure деталь сбоя одной записи
type Failure struct {
	LegacyID int64
	Reason   string
}

// Результаты миграции записи для метрик
const (
	resultSucceeded       = "succeeded"
	resultSkipped         = "skipped"
	resultFailed          = "failed"
	resultBudgetExhausted = "budget_exhausted"
)
