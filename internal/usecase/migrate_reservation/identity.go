package migrate_reservation

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/velodrive/VRB-SyncService/internal/domain"
	modernRepo "github.com/velodrive/VRB-SyncService/internal/infra/storage/modern"
)

// resolveCustomer разрешает или создает личность клиента
//
// Политика коллизий: две легаси-записи с одним email разрешаются в одного
// клиента; имя арендатора при этом хранится на участнике брони, так что
// общий почтовый ящик не искажает чужие брони. Расхождение имен логируется
// как предупреждение о качестве данных, существующая запись не меняется.
// Запись без email всегда получает свежую placeholder-личность: ложное
// слияние по нечеткому имени хуже, чем заглушка.
//
// Любой сбой разрешения дает nil - бронь создается без ссылки на клиента,
// имя арендатора сохраняется на участнике
func (uc *UseCase) resolveCustomer(ctx context.Context, rec *domain.LegacyReservation) *uuid.UUID {
	email := ""
	if rec.ContactEmail != nil {
		email = strings.TrimSpace(*rec.ContactEmail)
	}

	if email != "" {
		customer, err := uc.modernRepo.FindCustomerByEmail(ctx, email)
		if err == nil {
			if !strings.EqualFold(strings.TrimSpace(customer.FullName), strings.TrimSpace(rec.CustomerName)) {
				uc.logger.Warn("MigrateReservation: res_id=%d email %q matched customer %s with different name (%q vs %q)",
					rec.ID, email, customer.ID, customer.FullName, rec.CustomerName)
			}
			return &customer.ID
		}
		if !errors.Is(err, modernRepo.ErrCustomerNotFound) {
			uc.logger.Warn("MigrateReservation: res_id=%d customer lookup failed, proceeding without identity: %v",
				rec.ID, err)
			return nil
		}
	}

	placeholder := &domain.Customer{
		FullName:      renterName(rec),
		IsPlaceholder: true,
	}
	if email != "" {
		placeholder.Email = &email
	}

	created, err := uc.modernRepo.CreateCustomer(ctx, placeholder)
	if err != nil {
		uc.logger.Warn("MigrateReservation: res_id=%d placeholder customer creation failed, proceeding without identity: %v",
			rec.ID, err)
		return nil
	}

	uc.logger.Info("MigrateReservation: res_id=%d created placeholder customer %s", rec.ID, created.ID)
	return &created.ID
}
