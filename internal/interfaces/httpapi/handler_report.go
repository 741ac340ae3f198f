package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
)

func (h *Handler) GetPerformanceReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPerformanceReport")
	defer span.End()

	filter, sortSpec, accumulated, err := parsePerformanceQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	doc, err := h.reportService.PerformanceReport(ctx, filter, sortSpec, accumulated)
	if err != nil {
		h.logger.WarnContext(ctx, "performance report failed",
			"season", filter.Season, "team", filter.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	for _, warning := range doc.Warnings {
		w.Header().Add("X-Report-Warning", warning)
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Bytes)
}
