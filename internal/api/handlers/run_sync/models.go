package run_sync

import (
	syncReservations "github.com/velodrive/VRB-SyncService/internal/usecase/sync_reservations"
)

// SyncResponse HTTP сводка прогона для внешнего планировщика
type SyncResponse struct {
	Processed int               `json:"processed"`
	Succeeded int               `json:"succeeded"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	Failures  []FailureResponse `json:"failures"`
}

// FailureResponse деталь сбоя одной записи
type FailureResponse struct {
	LegacyID int64  `json:"legacyId"`
	Error    string `json:"error"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *syncReservations.Response) *SyncResponse {
	failures := make([]FailureResponse, 0, len(resp.Failures))
	for _, f := range resp.Failures {
		failures = append(failures, FailureResponse{LegacyID: f.LegacyID, Error: f.Reason})
	}

	return &SyncResponse{
		Processed: resp.Processed,
		Succeeded: resp.Succeeded,
		Skipped:   resp.Skipped,
		Failed:    resp.Failed,
		Failures:  failures,
	}
}
