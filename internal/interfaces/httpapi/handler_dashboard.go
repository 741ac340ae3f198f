package httpapi

import (
	"net/http"
	"time"

	"github.com/german-fros/tablero-api/internal/usecase"
)

type datasetHealthDTO struct {
	Dataset     string `json:"dataset"`
	Rows        int    `json:"rows"`
	Source      string `json:"source"`
	Fallback    bool   `json:"fallback"`
	LoadedAt    string `json:"loadedAt"`
	Diagnostics int    `json:"diagnostics"`
}

type dashboardSummaryDTO struct {
	Performance     datasetHealthDTO `json:"performance"`
	Contracts       datasetHealthDTO `json:"contracts"`
	Seasons         []string         `json:"seasons"`
	Teams           int              `json:"teams"`
	ActiveContracts int              `json:"activeContracts"`
	Clubs           int              `json:"clubs"`
	SyntheticXG     bool             `json:"syntheticXg"`
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	summary, err := h.dashboardService.Summary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "dashboard summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardSummaryDTO{
		Performance:     datasetHealthToDTO(summary.Performance),
		Contracts:       datasetHealthToDTO(summary.Contracts),
		Seasons:         summary.Seasons,
		Teams:           summary.Teams,
		ActiveContracts: summary.ActiveContracts,
		Clubs:           summary.Clubs,
		SyntheticXG:     summary.SyntheticXG,
	})
}

func datasetHealthToDTO(health usecase.DatasetHealth) datasetHealthDTO {
	return datasetHealthDTO{
		Dataset:     health.Dataset,
		Rows:        health.Rows,
		Source:      health.Source,
		Fallback:    health.Fallback,
		LoadedAt:    health.LoadedAt.UTC().Format(time.RFC3339),
		Diagnostics: health.Diagnostics,
	}
}
