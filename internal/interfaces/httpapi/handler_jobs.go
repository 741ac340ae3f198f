package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/german-fros/tablero-api/internal/usecase"
)

type datasetRefreshRequest struct {
	Datasets   []string `json:"datasets" validate:"omitempty,dive,oneof=contracts performance"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,min=1,max=8"`
	DryRun     bool     `json:"dry_run"`
}

func (h *Handler) RunDatasetRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDatasetRefreshJob")
	defer span.End()

	if h.refreshService == nil {
		writeError(ctx, w, fmt.Errorf("%w: dataset refresh is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeDatasetRefreshRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.refreshService.Refresh(ctx, usecase.RefreshInput{
		Datasets:   req.Datasets,
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "dataset refresh job failed",
			"datasets", req.Datasets, "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// decodeDatasetRefreshRequest tolerates an empty body: a bare POST means
// "refresh everything with the defaults".
func decodeDatasetRefreshRequest(r *http.Request) (datasetRefreshRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req datasetRefreshRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return datasetRefreshRequest{}, nil
		}
		return datasetRefreshRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
