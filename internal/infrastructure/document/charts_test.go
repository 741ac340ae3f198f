package document

import (
	"bytes"
	"errors"
	"testing"

	"github.com/german-fros/tablero-api/internal/domain/report"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func scatterSpec() report.ChartSpec {
	return report.ChartSpec{
		Kind:   report.ChartScatter,
		Title:  "xG vs Disparos",
		XLabel: "Disparos",
		YLabel: "xG",
		Series: []report.Series{{
			Name:  "Jugadores",
			Color: report.ColorGoals,
			Points: []report.Point{
				{X: 10, Y: 3.2, Size: 1800, Label: "Luis Acosta"},
				{X: 24, Y: 8.1, Size: 2400, Label: "Bruno Silva"},
				{X: 5, Y: 1.0, Size: 900, Label: "Diego Techera"},
			},
		}},
		RefLines: []report.RefLine{
			{Axis: "x", Value: 13.0, Label: "Disparos promedio: 13.0"},
		},
	}
}

func TestPNGRendererScatter(t *testing.T) {
	t.Parallel()

	png, err := NewPNGRenderer().Render(scatterSpec())
	if err != nil {
		t.Fatalf("render scatter: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected PNG magic bytes, got %x", png[:8])
	}
}

func TestPNGRendererScatter_SinglePoint(t *testing.T) {
	t.Parallel()

	spec := scatterSpec()
	spec.Series[0].Points = spec.Series[0].Points[:1]
	spec.RefLines = nil

	png, err := NewPNGRenderer().Render(spec)
	if err != nil {
		t.Fatalf("render single-point scatter: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("expected PNG magic bytes")
	}
}

func TestPNGRendererBars(t *testing.T) {
	t.Parallel()

	spec := report.ChartSpec{
		Kind:   report.ChartBars,
		Title:  "Top 10 por goles",
		YLabel: "Goles",
		Labels: []string{"Acosta", "Silva", "Techera"},
		Series: []report.Series{{
			Name:   "Goles",
			Color:  report.ColorGoals,
			Values: []float64{14, 11, 7},
		}},
	}

	png, err := NewPNGRenderer().Render(spec)
	if err != nil {
		t.Fatalf("render bars: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("expected PNG magic bytes")
	}
}

func TestPNGRendererBars_AllZeroValues(t *testing.T) {
	t.Parallel()

	spec := report.ChartSpec{
		Kind:   report.ChartBars,
		Labels: []string{"A", "B"},
		Series: []report.Series{{Values: []float64{0, 0}}},
	}

	if _, err := NewPNGRenderer().Render(spec); err != nil {
		t.Fatalf("render zero-value bars: %v", err)
	}
}

func TestPNGRendererEmptySeries(t *testing.T) {
	t.Parallel()

	_, err := NewPNGRenderer().Render(report.ChartSpec{Kind: report.ChartScatter})
	if !errors.Is(err, ErrNoChartData) {
		t.Fatalf("expected ErrNoChartData, got %v", err)
	}

	_, err = NewPNGRenderer().Render(report.ChartSpec{Kind: report.ChartBars})
	if !errors.Is(err, ErrNoChartData) {
		t.Fatalf("expected ErrNoChartData for empty bars, got %v", err)
	}
}

func TestPNGRendererUnsupportedKind(t *testing.T) {
	t.Parallel()

	_, err := NewPNGRenderer().Render(report.ChartSpec{Kind: report.ChartStackedBars})
	if err == nil {
		t.Fatal("expected an error for a kind with no raster renderer")
	}
}
