package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/domain/report"
	"github.com/german-fros/tablero-api/internal/infrastructure/document"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

type failingRenderer struct {
	failKind report.ChartKind
	fallback *document.PNGRenderer
}

func (r *failingRenderer) Render(spec report.ChartSpec) ([]byte, error) {
	if spec.Kind == r.failKind {
		return nil, errors.New("render blew up")
	}

	return r.fallback.Render(spec)
}

type failingBuilder struct{}

func (failingBuilder) Build(document.ReportInput) ([]byte, error) {
	return nil, errors.New("writer exploded")
}

func newTestReportService(renderer chartRenderer, builder documentBuilder) *ReportService {
	repo := &performanceRepoStub{snapshot: performanceFixture()}
	performance := newTestPerformanceService(repo, nil)

	service := NewReportService(performance, renderer, builder, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	return service
}

func TestReportServicePerformanceReportBuildsPDF(t *testing.T) {
	service := newTestReportService(document.NewPNGRenderer(), document.NewPDFBuilder())

	doc, err := service.PerformanceReport(context.Background(), playerstats.Filter{Season: "2024"}, playerstats.SortSpec{Metric: playerstats.MetricGoals}, false)
	if err != nil {
		t.Fatalf("PerformanceReport returned error: %v", err)
	}

	if doc.Filename != document.ReportFilename {
		t.Fatalf("Filename = %q, want %q", doc.Filename, document.ReportFilename)
	}
	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF-")) {
		t.Fatalf("document does not start with a PDF header: % x", firstBytes(doc.Bytes, 8))
	}
	if len(doc.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", doc.Warnings)
	}
}

func TestReportServiceChartFailureBecomesWarning(t *testing.T) {
	renderer := &failingRenderer{failKind: report.ChartScatter, fallback: document.NewPNGRenderer()}
	service := newTestReportService(renderer, document.NewPDFBuilder())

	doc, err := service.PerformanceReport(context.Background(), playerstats.Filter{Season: "2024"}, playerstats.SortSpec{Metric: playerstats.MetricGoals}, false)
	if err != nil {
		t.Fatalf("PerformanceReport returned error: %v", err)
	}

	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF-")) {
		t.Fatal("document is not a PDF despite the chart failure")
	}
	if len(doc.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1: %v", len(doc.Warnings), doc.Warnings)
	}
	if !strings.Contains(doc.Warnings[0], "omitido") {
		t.Fatalf("warning does not mention the omitted chart: %q", doc.Warnings[0])
	}
}

func TestReportServiceBuilderFailure(t *testing.T) {
	service := newTestReportService(document.NewPNGRenderer(), failingBuilder{})

	_, err := service.PerformanceReport(context.Background(), playerstats.Filter{}, playerstats.SortSpec{Metric: playerstats.MetricGoals}, false)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("PerformanceReport error = %v, want ErrDependencyUnavailable", err)
	}
}

func firstBytes(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}

	return b[:n]
}
