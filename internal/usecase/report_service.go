package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/german-fros/tablero-api/internal/domain/dataset"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/domain/report"
	"github.com/german-fros/tablero-api/internal/infrastructure/document"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

// chartRenderer turns one chart spec into a PNG raster.
type chartRenderer interface {
	Render(spec report.ChartSpec) ([]byte, error)
}

// documentBuilder lays out the final PDF.
type documentBuilder interface {
	Build(input document.ReportInput) ([]byte, error)
}

type ReportService struct {
	performance *PerformanceService
	renderer    chartRenderer
	builder     documentBuilder
	logger      *logging.Logger
	now         func() time.Time
}

func NewReportService(performance *PerformanceService, renderer chartRenderer, builder documentBuilder, logger *logging.Logger) *ReportService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReportService{
		performance: performance,
		renderer:    renderer,
		builder:     builder,
		logger:      logger.Named("report"),
		now:         time.Now,
	}
}

// PerformanceReport renders the players view as a downloadable PDF. The
// two charts render in parallel; a chart that fails is dropped from the
// document and reported as a warning, never as an error. Only a PDF writer
// failure aborts the report.
func (s *ReportService) PerformanceReport(ctx context.Context, filter playerstats.Filter, sortSpec playerstats.SortSpec, accumulated bool) (report.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.PerformanceReport")
	defer span.End()

	view, err := s.performance.Overview(ctx, filter, sortSpec, accumulated)
	if err != nil {
		return report.Document{}, fmt.Errorf("build performance view: %w", err)
	}

	var (
		scatterPNG []byte
		scatterErr error
		barsPNG    []byte
		barsErr    error
	)
	var wg conc.WaitGroup
	wg.Go(func() { scatterPNG, scatterErr = s.renderer.Render(view.Scatter) })
	wg.Go(func() { barsPNG, barsErr = s.renderer.Render(view.RankedBars) })
	wg.Wait()

	charts := make([]document.ChartImage, 0, 2)
	warnings := make([]string, 0, 2)
	appendChart := func(title string, png []byte, renderErr error) {
		if renderErr != nil {
			warnings = append(warnings, fmt.Sprintf("gráfico %q omitido: %v", title, renderErr))
			s.logger.WarnContext(ctx, "report chart omitted", "chart", title, "error", renderErr)
			return
		}
		charts = append(charts, document.ChartImage{Name: title, PNG: png})
	}
	appendChart(view.Scatter.Title, scatterPNG, scatterErr)
	appendChart(view.RankedBars.Title, barsPNG, barsErr)

	pdfBytes, err := s.builder.Build(document.ReportInput{
		Title:       "Reporte de Rendimiento",
		GeneratedAt: s.now(),
		Season:      displayFacet(view.Meta.Season),
		Team:        displayFacet(view.Meta.Team),
		SyntheticXG: view.Meta.SyntheticXG,
		Fallback:    view.Meta.Fallback,
		Charts:      charts,
		Table:       rankedTableRows(view.Top),
	})
	if err != nil {
		return report.Document{}, fmt.Errorf("%w: build report pdf: %v", ErrDependencyUnavailable, err)
	}

	s.logger.InfoContext(ctx, "report rendered",
		"rows", view.Meta.RowCount,
		"charts", len(charts),
		"warnings", len(warnings),
		"bytes", len(pdfBytes))

	return report.Document{
		Filename: document.ReportFilename,
		Bytes:    pdfBytes,
		Warnings: warnings,
	}, nil
}

// displayFacet maps the no-constraint facet values to the empty string the
// PDF metadata writer replaces with its all-facet label.
func displayFacet(v string) string {
	if v == dataset.FacetAll {
		return ""
	}

	return v
}

// rankedTableRows stringifies the top ranking for the PDF table, cells
// aligned with report.TableColumns.
func rankedTableRows(top []playerstats.Record) []report.TableRow {
	rows := make([]report.TableRow, 0, len(top))
	for _, r := range top {
		rows = append(rows, report.TableRow{Cells: []string{
			r.Player,
			r.Team,
			strconv.Itoa(r.Goals),
			strconv.Itoa(r.Assists),
			strconv.Itoa(r.Minutes),
		}})
	}

	return rows
}
