package run_sync

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/velodrive/VRB-SyncService/internal/api/handlers"
	syncReservations "github.com/velodrive/VRB-SyncService/internal/usecase/sync_reservations"
)

const (
	msgInvalidHorizon  = "некорректный параметр horizonDays"
	msgLegacyStoreDown = "легаси-хранилище недоступно, прогон не выполнен"
)

type Handler struct {
	useCase SyncUseCase
	logger  Logger
}

func NewHandler(useCase SyncUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sync/run
// Вызывается внешним планировщиком; аутентификация bearer токеном
// выполняется в middleware до обращения к хранилищам
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &syncReservations.Request{}

	if raw := r.URL.Query().Get("horizonDays"); raw != "" {
		horizon, err := strconv.Atoi(raw)
		if err != nil || horizon < 0 {
			h.logger.Warn("POST /sync/run - invalid horizonDays=%q", raw)
			handlers.RespondBadRequest(w, msgInvalidHorizon)
			return
		}
		req.HorizonDays = &horizon
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, syncReservations.ErrInvalidInput):
			h.logger.Warn("POST /sync/run - invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHorizon)

		case errors.Is(err, syncReservations.ErrLegacyStore):
			h.logger.Error("POST /sync/run - legacy store failure: %v", err)
			handlers.RespondBadGateway(w, msgLegacyStoreDown)

		default:
			h.logger.Error("POST /sync/run - sync run failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sync/run - completed: processed=%d succeeded=%d skipped=%d failed=%d",
		result.Processed, result.Succeeded, result.Skipped, result.Failed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
