package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking in the modern store
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusInProgress  BookingStatus = "in_progress"
	StatusCompleted   BookingStatus = "completed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusNoShow      BookingStatus = "no_show"
	StatusNeedsReview BookingStatus = "needs_review"
)

// legacyStatusMapping соответствие словаря статусов легаси-системы
// закрытому перечислению современного хранилища
var legacyStatusMapping = map[string]BookingStatus{
	normalizeLegacyStatus(LegacyStatusPending):   StatusPending,
	normalizeLegacyStatus(LegacyStatusConfirmed): StatusConfirmed,
	normalizeLegacyStatus(LegacyStatusCheckedIn): StatusInProgress,
	normalizeLegacyStatus(LegacyStatusCompleted): StatusCompleted,
	normalizeLegacyStatus(LegacyStatusCancelled): StatusCancelled,
	normalizeLegacyStatus(LegacyStatusNoShow):    StatusNoShow,
}

// legacyStatusLabels обратное представление для доски диспетчера:
// современные записи показываются в легаси-словаре
var legacyStatusLabels = map[BookingStatus]string{
	StatusPending:     LegacyStatusPending,
	StatusConfirmed:   LegacyStatusConfirmed,
	StatusInProgress:  LegacyStatusCheckedIn,
	StatusCompleted:   LegacyStatusCompleted,
	StatusCancelled:   LegacyStatusCancelled,
	StatusNoShow:      LegacyStatusNoShow,
	StatusNeedsReview: "Needs Review",
}

// MapLegacyStatus переводит легаси-статус в современное перечисление
// Неизвестный статус дает консервативный StatusNeedsReview и known=false,
// чтобы вызывающий мог залогировать пробел в данных (но не потерять запись)
func MapLegacyStatus(legacyStatus string) (status BookingStatus, known bool) {
	if s, ok := legacyStatusMapping[normalizeLegacyStatus(legacyStatus)]; ok {
		return s, true
	}
	return StatusNeedsReview, false
}

// LegacyStatusLabel возвращает легаси-представление современного статуса
func LegacyStatusLabel(status BookingStatus) string {
	if label, ok := legacyStatusLabels[status]; ok {
		return label
	}
	return string(status)
}

// Booking заголовок брони в современной 3-уровневой модели
type Booking struct {
	ID         uuid.UUID
	LocationID int64
	CustomerID *uuid.UUID
	// LegacyID мостовой ключ миграции: идентификатор легаси-записи,
	// из которой создана бронь. Уникален среди непустых значений -
	// единственная защита от двойной миграции
	LegacyID  *int64
	StartsAt  time.Time
	Status    BookingStatus
	TotalPax  int
	PartyName *string
	// Metadata открытая карта провенанса (исходные легаси-коды техники и т.п.)
	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Заполняются при eager-загрузке для доски диспетчера
	Participants []*BookingParticipant
	Resources    []*BookingResource
}

// IsBridged возвращает true, если бронь создана миграцией легаси-записи
func (b *Booking) IsBridged() bool {
	return b.LegacyID != nil
}

// PrimaryRenter возвращает участника с ролью PRIMARY_RENTER, если он загружен
func (b *Booking) PrimaryRenter() *BookingParticipant {
	for _, p := range b.Participants {
		if p.Role == RolePrimaryRenter {
			return p
		}
	}
	return nil
}

// ParticipantRole роль участника брони
type ParticipantRole string

const (
	// RolePrimaryRenter основной арендатор, ровно один на бронь
	RolePrimaryRenter ParticipantRole = "PRIMARY_RENTER"
	// RolePassenger пассажир, ноль и более на бронь
	RolePassenger ParticipantRole = "PASSENGER"
)

// BookingParticipant участник брони
// Либо ссылается на известного клиента, либо несет временное отображаемое имя
type BookingParticipant struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	Role        ParticipantRole
	CustomerID  *uuid.UUID
	DisplayName string
	CreatedAt   time.Time
}

// BookingResource техника, закрепленная за бронью
// Одна строка на тип с количеством; мультимножество количеств по типам,
// переведенное обратно через таблицу кодов, обязано воспроизводить
// исходные легаси-колонки (round-trip инвариант)
type BookingResource struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	VehicleTypeID string
	Quantity      int
	// UnitID номер физической единицы, назначается диспетчером позже
	UnitID    *string
	CreatedAt time.Time
}

// Customer клиент в современном хранилище
type Customer struct {
	ID       uuid.UUID
	FullName string
	Email    *string
	// IsPlaceholder true для минимальной записи, созданной миграцией
	// при невозможности разрешить личность клиента
	IsPlaceholder bool
	CreatedAt     time.Time
}

// Location точка проката
type Location struct {
	ID   int64
	Name string
	// Timezone IANA-имя зоны для отображения местного времени на доске
	Timezone string
}
