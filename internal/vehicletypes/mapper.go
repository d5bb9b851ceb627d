// Package vehicletypes фиксированная таблица соответствия легаси-кодов техники
// нормализованным идентификаторам типов ресурсов современного хранилища.
//
// Таблица версионируется вместе с кодом: добавление кода - это изменение
// таблицы и тестов, а не данных. Динамических источников у маппинга нет.
package vehicletypes

import (
	"errors"
	"fmt"
)

// TableVersion версия таблицы соответствия
const TableVersion = 3

// LegacyCodeOther сентинел для современных типов без легаси-аналога
// Перевод в "Other" намеренно lossy и всегда логируется вызывающим
const LegacyCodeOther = "Other"

// ErrUnknownCode возвращается для легаси-кода, отсутствующего в таблице
// Неизвестный легаси-код - ошибка данных, которую миграция обязана поднять:
// молчаливый пропуск нарушил бы round-trip инвариант по количеству техники
var ErrUnknownCode = errors.New("vehicletypes: unknown legacy vehicle code")

// mapping единственный источник истины; порядок соответствует порядку
// колонок количества в легаси-таблице reservations
var mapping = []struct {
	legacyCode   string
	modernTypeID string
}{
	{"SB2", "sxs-2-seater"},
	{"SB4", "sxs-4-seater"},
	{"ATV", "atv-quad"},
	{"JS1", "jetski-solo"},
	{"JS2", "jetski-tandem"},
	{"EB", "e-bike"},
}

var (
	legacyToModern = make(map[string]string, len(mapping))
	modernToLegacy = make(map[string]string, len(mapping))
)

func init() {
	for _, m := range mapping {
		legacyToModern[m.legacyCode] = m.modernTypeID
		modernToLegacy[m.modernTypeID] = m.legacyCode
	}
}

// ToModernTypeID переводит легаси-код в современный идентификатор типа
func ToModernTypeID(legacyCode string) (string, error) {
	typeID, ok := legacyToModern[legacyCode]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCode, legacyCode)
	}
	return typeID, nil
}

// ToLegacyCode переводит современный идентификатор типа в легаси-код
// Тотальная функция: неизвестный тип дает LegacyCodeOther
func ToLegacyCode(modernTypeID string) string {
	if code, ok := modernToLegacy[modernTypeID]; ok {
		return code
	}
	return LegacyCodeOther
}

// IsKnownLegacyCode возвращает true, если код присутствует в таблице
func IsKnownLegacyCode(legacyCode string) bool {
	_, ok := legacyToModern[legacyCode]
	return ok
}

// LegacyCodes возвращает все легаси-коды в порядке колонок легаси-таблицы
func LegacyCodes() []string {
	codes := make([]string, 0, len(mapping))
	for _, m := range mapping {
		codes = append(codes, m.legacyCode)
	}
	return codes
}
