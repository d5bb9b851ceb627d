package get_sync_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/velodrive/VRB-SyncService/internal/api/handlers"
	"github.com/velodrive/VRB-SyncService/internal/service/migration"
)

const (
	msgInvalidHorizon   = "некорректный параметр horizonDays"
	msgStoreUnavailable = "хранилище недоступно, статус не рассчитан"
)

type Handler struct {
	service MigrationService
	horizon int
	logger  Logger
}

func NewHandler(service MigrationService, defaultHorizonDays int, logger Logger) *Handler {
	return &Handler{
		service: service,
		horizon: defaultHorizonDays,
		logger:  logger,
	}
}

// Handle GET /api/v1/sync/status
// Аутентификация bearer токеном выполняется в middleware
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	horizon := h.horizon
	if raw := r.URL.Query().Get("horizonDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.logger.Warn("GET /sync/status - invalid horizonDays=%q", raw)
			handlers.RespondBadRequest(w, msgInvalidHorizon)
			return
		}
		horizon = parsed
	}

	status, err := h.service.Status(r.Context(), horizon)
	if err != nil {
		switch {
		case errors.Is(err, migration.ErrLegacyStore), errors.Is(err, migration.ErrModernStore):
			h.logger.Error("GET /sync/status - store failure: %v", err)
			handlers.RespondBadGateway(w, msgStoreUnavailable)

		default:
			h.logger.Error("GET /sync/status - failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromServiceModel(status))
}
