package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/usecase"
)

// Caveat copy mirrors the PDF metadata block so both surfaces tell the
// same story about estimated and demo data.
const (
	syntheticXGCaveat = "xG/xA estimados a partir de goles y asistencias."
	fallbackCaveat    = "Datos de demostración: la fuente original no estaba disponible."
)

type performanceRowDTO struct {
	WyscoutID int64   `json:"wyscoutId,omitempty"`
	Player    string  `json:"player"`
	Team      string  `json:"team"`
	Position  string  `json:"position"`
	Age       int     `json:"age,omitempty"`
	Season    string  `json:"season"`
	Minutes   int     `json:"minutes"`
	Goals     int     `json:"goals"`
	Assists   int     `json:"assists"`
	Shots     int     `json:"shots"`
	XG        float64 `json:"xg"`
	XA        float64 `json:"xa"`
}

type performanceMetaDTO struct {
	Season      string          `json:"season"`
	Team        string          `json:"team"`
	Accumulated bool            `json:"accumulated"`
	SyntheticXG bool            `json:"syntheticXg"`
	Fallback    bool            `json:"fallback"`
	Caveats     []string        `json:"caveats,omitempty"`
	RowCount    int             `json:"rowCount"`
	LoadedAt    string          `json:"loadedAt"`
	Diagnostics []diagnosticDTO `json:"diagnostics,omitempty"`
}

type performanceViewDTO struct {
	Rows       []performanceRowDTO `json:"rows"`
	Top        []performanceRowDTO `json:"top"`
	Scatter    chartSpecDTO        `json:"scatter"`
	RankedBars chartSpecDTO        `json:"rankedBars"`
	Meta       performanceMetaDTO  `json:"meta"`
}

type metricOptionDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type performanceFacetsDTO struct {
	Seasons []string          `json:"seasons"`
	Teams   []string          `json:"teams"`
	Metrics []metricOptionDTO `json:"metrics"`
}

func (h *Handler) GetPerformancePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPerformancePlayers")
	defer span.End()

	filter, sortSpec, accumulated, err := parsePerformanceQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.performanceService.Overview(ctx, filter, sortSpec, accumulated)
	if err != nil {
		h.logger.WarnContext(ctx, "performance overview failed",
			"season", filter.Season, "team", filter.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, performanceViewToDTO(ctx, view))
}

func (h *Handler) GetPerformanceFacets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPerformanceFacets")
	defer span.End()

	facets, err := h.performanceService.Facets(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "performance facets failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	metrics := make([]metricOptionDTO, 0, len(facets.Metrics))
	for _, m := range facets.Metrics {
		metrics = append(metrics, metricOptionDTO{Value: m.Value, Label: m.Label})
	}

	writeSuccess(ctx, w, http.StatusOK, performanceFacetsDTO{
		Seasons: facets.Seasons,
		Teams:   facets.Teams,
		Metrics: metrics,
	})
}

func parsePerformanceQuery(r *http.Request) (playerstats.Filter, playerstats.SortSpec, bool, error) {
	q := r.URL.Query()

	filter := playerstats.Filter{
		Season: strings.TrimSpace(q.Get("season")),
		Team:   strings.TrimSpace(q.Get("team")),
	}
	sortSpec := playerstats.SortSpec{Metric: playerstats.ParseMetric(q.Get("metric"))}
	accumulated := false

	if raw := strings.TrimSpace(q.Get("min_shots")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return filter, sortSpec, false, fmt.Errorf("%w: min_shots must be a non-negative integer", usecase.ErrInvalidInput)
		}
		filter.MinShots = value
	}

	if raw := strings.TrimSpace(q.Get("accumulated")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, sortSpec, false, fmt.Errorf("%w: accumulated must be a boolean", usecase.ErrInvalidInput)
		}
		accumulated = value
	}

	if raw := strings.TrimSpace(q.Get("ascending")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, sortSpec, false, fmt.Errorf("%w: ascending must be a boolean", usecase.ErrInvalidInput)
		}
		sortSpec.Ascending = value
	}

	return filter, sortSpec, accumulated, nil
}

func performanceViewToDTO(ctx context.Context, view usecase.PerformanceView) performanceViewDTO {
	ctx, span := startSpan(ctx, "httpapi.performanceViewToDTO")
	defer span.End()

	rows := make([]performanceRowDTO, 0, len(view.Rows))
	for _, record := range view.Rows {
		rows = append(rows, performanceRowToDTO(record))
	}
	top := make([]performanceRowDTO, 0, len(view.Top))
	for _, record := range view.Top {
		top = append(top, performanceRowToDTO(record))
	}

	return performanceViewDTO{
		Rows:       rows,
		Top:        top,
		Scatter:    chartSpecToDTO(ctx, view.Scatter),
		RankedBars: chartSpecToDTO(ctx, view.RankedBars),
		Meta:       performanceMetaToDTO(view.Meta),
	}
}

func performanceRowToDTO(record playerstats.Record) performanceRowDTO {
	return performanceRowDTO{
		WyscoutID: record.WyscoutID,
		Player:    record.Player,
		Team:      record.Team,
		Position:  string(record.Category),
		Age:       record.Age,
		Season:    record.Season,
		Minutes:   record.Minutes,
		Goals:     record.Goals,
		Assists:   record.Assists,
		Shots:     record.Shots,
		XG:        record.XG,
		XA:        record.XA,
	}
}

func performanceMetaToDTO(meta usecase.PerformanceMeta) performanceMetaDTO {
	var caveats []string
	if meta.SyntheticXG {
		caveats = append(caveats, syntheticXGCaveat)
	}
	if meta.Fallback {
		caveats = append(caveats, fallbackCaveat)
	}

	return performanceMetaDTO{
		Season:      meta.Season,
		Team:        meta.Team,
		Accumulated: meta.Accumulated,
		SyntheticXG: meta.SyntheticXG,
		Fallback:    meta.Fallback,
		Caveats:     caveats,
		RowCount:    meta.RowCount,
		LoadedAt:    meta.LoadedAt.UTC().Format(time.RFC3339),
		Diagnostics: diagnosticsToDTO(meta.Diagnostics),
	}
}
