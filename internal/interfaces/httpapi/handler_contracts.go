package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/usecase"
)

type contractRowDTO struct {
	Player         string  `json:"player"`
	Club           string  `json:"club"`
	Position       string  `json:"position"`
	StartDate      string  `json:"startDate,omitempty"`
	EndDate        string  `json:"endDate,omitempty"`
	MonthlySalary  float64 `json:"monthlySalary"`
	ReleaseClause  float64 `json:"releaseClause,omitempty"`
	Active         bool    `json:"active"`
	DurationDays   int     `json:"durationDays"`
	StartYear      int     `json:"startYear,omitempty"`
	ExpirySemester string  `json:"expirySemester,omitempty"`
}

type contractsTotalsDTO struct {
	Contracts    int     `json:"contracts"`
	Clubs        int     `json:"clubs"`
	MeanSalary   float64 `json:"meanSalary"`
	TotalMonthly float64 `json:"totalMonthly"`
}

type contractsMetaDTO struct {
	Club        string          `json:"club"`
	Position    string          `json:"position"`
	Fallback    bool            `json:"fallback"`
	Caveats     []string        `json:"caveats,omitempty"`
	RowCount    int             `json:"rowCount"`
	LoadedAt    string          `json:"loadedAt"`
	Diagnostics []diagnosticDTO `json:"diagnostics,omitempty"`
}

type contractsViewDTO struct {
	Rows             []contractRowDTO   `json:"rows"`
	SalaryByPosition chartSpecDTO       `json:"salaryByPosition"`
	StartsByYear     chartSpecDTO       `json:"startsByYear"`
	Totals           contractsTotalsDTO `json:"totals"`
	Meta             contractsMetaDTO   `json:"meta"`
}

type contractsFacetsDTO struct {
	Clubs     []string `json:"clubs"`
	Positions []string `json:"positions"`
	SalaryMin float64  `json:"salaryMin"`
	SalaryMax float64  `json:"salaryMax"`
}

type semesterCountDTO struct {
	Semester string `json:"semester"`
	Count    int    `json:"count"`
}

type expirationsViewDTO struct {
	Horizon int                `json:"horizon"`
	Buckets []semesterCountDTO `json:"buckets"`
	Soonest []contractRowDTO   `json:"soonest"`
	Meta    contractsMetaDTO   `json:"meta"`
}

func (h *Handler) GetContracts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContracts")
	defer span.End()

	filter, err := parseContractsQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.contractsService.Overview(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "contracts overview failed",
			"club", filter.Club, "position", filter.Position, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contractsViewToDTO(ctx, view))
}

func (h *Handler) GetContractFacets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContractFacets")
	defer span.End()

	facets, err := h.contractsService.Facets(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "contract facets failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contractsFacetsDTO{
		Clubs:     facets.Clubs,
		Positions: facets.Positions,
		SalaryMin: facets.SalaryMin,
		SalaryMax: facets.SalaryMax,
	})
}

func (h *Handler) GetContractExpirations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContractExpirations")
	defer span.End()

	horizon := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("horizon")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: horizon must be an integer", usecase.ErrInvalidInput))
			return
		}
		horizon = value
	}

	view, err := h.contractsService.Expirations(ctx, horizon)
	if err != nil {
		h.logger.WarnContext(ctx, "contract expirations failed", "horizon", horizon, "error", err)
		writeError(ctx, w, err)
		return
	}

	buckets := make([]semesterCountDTO, 0, len(view.Buckets))
	for _, bucket := range view.Buckets {
		buckets = append(buckets, semesterCountDTO{Semester: bucket.Semester, Count: bucket.Count})
	}
	soonest := make([]contractRowDTO, 0, len(view.Soonest))
	for _, c := range view.Soonest {
		soonest = append(soonest, contractRowToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, expirationsViewDTO{
		Horizon: view.Horizon,
		Buckets: buckets,
		Soonest: soonest,
		Meta:    contractsMetaToDTO(view.Meta),
	})
}

func parseContractsQuery(r *http.Request) (contract.Filter, error) {
	q := r.URL.Query()

	filter := contract.Filter{
		Club:     strings.TrimSpace(q.Get("club")),
		Position: strings.TrimSpace(q.Get("position")),
	}

	if raw := strings.TrimSpace(q.Get("salary_min")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return filter, fmt.Errorf("%w: salary_min must be a non-negative number", usecase.ErrInvalidInput)
		}
		filter.SalaryMin = value
	}

	if raw := strings.TrimSpace(q.Get("salary_max")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return filter, fmt.Errorf("%w: salary_max must be a non-negative number", usecase.ErrInvalidInput)
		}
		filter.SalaryMax = value
	}

	if filter.SalaryMax > 0 && filter.SalaryMin > filter.SalaryMax {
		return filter, fmt.Errorf("%w: salary_min exceeds salary_max", usecase.ErrInvalidInput)
	}

	return filter, nil
}

func contractsViewToDTO(ctx context.Context, view usecase.ContractsView) contractsViewDTO {
	ctx, span := startSpan(ctx, "httpapi.contractsViewToDTO")
	defer span.End()

	rows := make([]contractRowDTO, 0, len(view.Rows))
	for _, c := range view.Rows {
		rows = append(rows, contractRowToDTO(c))
	}

	return contractsViewDTO{
		Rows:             rows,
		SalaryByPosition: chartSpecToDTO(ctx, view.SalaryByPosition),
		StartsByYear:     chartSpecToDTO(ctx, view.StartsByYear),
		Totals: contractsTotalsDTO{
			Contracts:    view.Totals.Contracts,
			Clubs:        view.Totals.Clubs,
			MeanSalary:   view.Totals.MeanSalary,
			TotalMonthly: view.Totals.TotalMonthly,
		},
		Meta: contractsMetaToDTO(view.Meta),
	}
}

func contractRowToDTO(c contract.Contract) contractRowDTO {
	dto := contractRowDTO{
		Player:         c.Player,
		Club:           c.Club,
		Position:       string(c.Category),
		MonthlySalary:  c.MonthlySalary,
		ReleaseClause:  c.ReleaseClause,
		Active:         c.Active,
		DurationDays:   c.DurationDays,
		StartYear:      c.StartYear,
		ExpirySemester: c.ExpirySemester,
	}
	if !c.StartDate.IsZero() {
		dto.StartDate = c.StartDate.UTC().Format("2006-01-02")
	}
	if !c.EndDate.IsZero() {
		dto.EndDate = c.EndDate.UTC().Format("2006-01-02")
	}

	return dto
}

func contractsMetaToDTO(meta usecase.ContractsMeta) contractsMetaDTO {
	var caveats []string
	if meta.Fallback {
		caveats = append(caveats, fallbackCaveat)
	}

	return contractsMetaDTO{
		Club:        meta.Club,
		Position:    meta.Position,
		Fallback:    meta.Fallback,
		Caveats:     caveats,
		RowCount:    meta.RowCount,
		LoadedAt:    meta.LoadedAt.UTC().Format(time.RFC3339),
		Diagnostics: diagnosticsToDTO(meta.Diagnostics),
	}
}
