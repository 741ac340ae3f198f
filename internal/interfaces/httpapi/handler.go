package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/report"
	"github.com/german-fros/tablero-api/internal/platform/logging"
	"github.com/german-fros/tablero-api/internal/usecase"
)

type Handler struct {
	authService        *usecase.AuthService
	dashboardService   *usecase.DashboardService
	performanceService *usecase.PerformanceService
	contractsService   *usecase.ContractsService
	reportService      *usecase.ReportService
	refreshService     *usecase.RefreshService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	dashboardService *usecase.DashboardService,
	performanceService *usecase.PerformanceService,
	contractsService *usecase.ContractsService,
	reportService *usecase.ReportService,
	refreshService *usecase.RefreshService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:        authService,
		dashboardService:   dashboardService,
		performanceService: performanceService,
		contractsService:   contractsService,
		reportService:      reportService,
		refreshService:     refreshService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// Chart specifications are the API's chart payload; clients render them.

type chartSpecDTO struct {
	Kind     string       `json:"kind"`
	Title    string       `json:"title"`
	XLabel   string       `json:"xLabel"`
	YLabel   string       `json:"yLabel"`
	Labels   []string     `json:"labels,omitempty"`
	Series   []seriesDTO  `json:"series"`
	RefLines []refLineDTO `json:"refLines,omitempty"`
}

type seriesDTO struct {
	Name   string     `json:"name"`
	Color  string     `json:"color,omitempty"`
	Points []pointDTO `json:"points,omitempty"`
	Values []float64  `json:"values,omitempty"`
}

type pointDTO struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size,omitempty"`
	Label string  `json:"label,omitempty"`
}

type refLineDTO struct {
	Axis  string  `json:"axis"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

type diagnosticDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func chartSpecToDTO(ctx context.Context, spec report.ChartSpec) chartSpecDTO {
	ctx, span := startSpan(ctx, "httpapi.chartSpecToDTO")
	defer span.End()

	series := make([]seriesDTO, 0, len(spec.Series))
	for _, s := range spec.Series {
		points := make([]pointDTO, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, pointDTO{X: p.X, Y: p.Y, Size: p.Size, Label: p.Label})
		}
		series = append(series, seriesDTO{
			Name:   s.Name,
			Color:  s.Color,
			Points: points,
			Values: append([]float64(nil), s.Values...),
		})
	}

	refLines := make([]refLineDTO, 0, len(spec.RefLines))
	for _, rl := range spec.RefLines {
		refLines = append(refLines, refLineDTO{Axis: rl.Axis, Value: rl.Value, Label: rl.Label})
	}

	return chartSpecDTO{
		Kind:     string(spec.Kind),
		Title:    spec.Title,
		XLabel:   spec.XLabel,
		YLabel:   spec.YLabel,
		Labels:   append([]string(nil), spec.Labels...),
		Series:   series,
		RefLines: refLines,
	}
}

func diagnosticsToDTO(diagnostics []dataset.Diagnostic) []diagnosticDTO {
	if len(diagnostics) == 0 {
		return nil
	}

	out := make([]diagnosticDTO, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, diagnosticDTO{Code: d.Code, Message: d.Message})
	}
	return out
}
