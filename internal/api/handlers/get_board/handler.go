package get_board

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/velodrive/VRB-SyncService/internal/api/handlers"
	"github.com/velodrive/VRB-SyncService/internal/domain"
	unifiedBoard "github.com/velodrive/VRB-SyncService/internal/usecase/unified_board"
)

const (
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidLocation  = "некорректный параметр locationId"
	msgLocationNotFound = "точка проката не найдена"
	msgStoreUnavailable = "хранилище недоступно, доска не сформирована"
)

type Handler struct {
	useCase BoardUseCase
	logger  Logger
}

func NewHandler(useCase BoardUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/board?date=YYYY-MM-DD&locationId=N
// Читающий путь диспетчерской доски
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /board - invalid date=%q", r.URL.Query().Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	locationID, err := strconv.ParseInt(r.URL.Query().Get("locationId"), 10, 64)
	if err != nil || locationID <= 0 {
		h.logger.Warn("GET /board - invalid locationId=%q", r.URL.Query().Get("locationId"))
		handlers.RespondBadRequest(w, msgInvalidLocation)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &unifiedBoard.Request{
		Date:       date,
		LocationID: locationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, unifiedBoard.ErrInvalidInput):
			h.logger.Warn("GET /board - invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLocation)

		case errors.Is(err, unifiedBoard.ErrLocationNotFound):
			h.logger.Warn("GET /board - location id=%d not found", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, unifiedBoard.ErrLegacyStore), errors.Is(err, unifiedBoard.ErrModernStore):
			// Громкий отказ вместо уверенно-неправильной неполной доски
			h.logger.Error("GET /board - store failure: %v", err)
			handlers.RespondBadGateway(w, msgStoreUnavailable)

		default:
			h.logger.Error("GET /board - failed to build board: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /board - %d rows for date=%s location=%d",
		len(result.Rows), date.Format(domain.DateFormat), locationID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
