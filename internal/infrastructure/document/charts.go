// Package document rasterizes chart specifications and assembles the PDF
// export. The dashboard client renders the same specifications in the
// browser; only the PDF path needs server-side images.
package document

import (
	"io"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/german-fros/tablero-api/internal/domain/report"
)

// ErrNoChartData marks a specification whose series carry no points. The
// report assembler treats it like any render failure: the section is
// omitted and a warning recorded.
var ErrNoChartData = errors.New("chart has no data points")

// PNGRenderer turns chart specifications into PNG rasters. Stacked bars are
// a client-only chart shape (the contracts page renders them in the
// browser) and have no raster path.
type PNGRenderer struct {
	width  int
	height int
}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{width: 900, height: 420}
}

func (r *PNGRenderer) Render(spec report.ChartSpec) ([]byte, error) {
	switch spec.Kind {
	case report.ChartScatter:
		return r.renderScatter(spec)
	case report.ChartBars:
		return r.renderBars(spec)
	default:
		return nil, errors.Newf("chart kind %q has no raster renderer", spec.Kind)
	}
}

func (r *PNGRenderer) renderScatter(spec report.ChartSpec) ([]byte, error) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)

	series := make([]chart.Series, 0, len(spec.Series)+1)
	for _, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		sizes := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i], ys[i], sizes[i] = p.X, p.Y, p.Size
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth:      chart.Disabled,
				DotColor:         colorOrDefault(s.Color, report.ColorGoals),
				DotWidth:         5,
				DotWidthProvider: dotSizer(sizes),
			},
		})
	}
	if len(series) == 0 {
		return nil, ErrNoChartData
	}

	var gridLines []chart.GridLine
	annotations := chart.AnnotationSeries{
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("9a9a9a"),
			FontSize:    9,
		},
	}
	for _, rl := range spec.RefLines {
		if rl.Axis != "x" {
			continue
		}
		gridLines = append(gridLines, chart.GridLine{Value: rl.Value})
		if rl.Label != "" {
			annotations.Annotations = append(annotations.Annotations, chart.Value2{
				XValue: rl.Value,
				YValue: maxY,
				Label:  rl.Label,
			})
		}
	}
	if len(annotations.Annotations) > 0 {
		series = append(series, annotations)
	}

	xaxis := chart.XAxis{Name: spec.XLabel}
	if len(gridLines) > 0 {
		xaxis.GridLines = gridLines
		xaxis.GridMajorStyle = chart.Style{
			StrokeColor:     drawing.ColorFromHex("9a9a9a"),
			StrokeWidth:     1,
			StrokeDashArray: []float64{4, 3},
		}
	}
	// go-chart rejects a zero-width value range, which a single-player
	// filter result would produce.
	if minX == maxX {
		xaxis.Range = &chart.ContinuousRange{Min: minX - 1, Max: maxX + 1}
	}
	yaxis := chart.YAxis{Name: spec.YLabel}
	if minY == maxY {
		yaxis.Range = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  r.width,
		Height: r.height,
		XAxis:  xaxis,
		YAxis:  yaxis,
		Series: series,
	}

	return renderPNG(graph)
}

func (r *PNGRenderer) renderBars(spec report.ChartSpec) ([]byte, error) {
	if len(spec.Series) == 0 || len(spec.Series[0].Values) == 0 {
		return nil, ErrNoChartData
	}

	// Ranked bars carry a single series aligned with the labels.
	s := spec.Series[0]
	fill := colorOrDefault(s.Color, report.ColorGoals)

	allZero := true
	bars := make([]chart.Value, 0, len(s.Values))
	for i, v := range s.Values {
		if v != 0 {
			allZero = false
		}
		label := ""
		if i < len(spec.Labels) {
			label = spec.Labels[i]
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		})
	}

	graph := chart.BarChart{
		Title:      spec.Title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   barWidth(r.width, len(bars)),
		BarSpacing: 12,
		YAxis:      chart.YAxis{Name: spec.YLabel},
		Bars:       bars,
	}
	if allZero {
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1}
	}

	return renderPNG(graph)
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderPNG(graph renderable) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, errors.Wrap(err, "render chart")
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// dotSizer scales scatter markers by their Size field (minutes played on
// the performance chart) onto a 4..12px radius.
func dotSizer(sizes []float64) chart.SizeProvider {
	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range sizes {
		min, max = math.Min(min, s), math.Max(max, s)
	}

	return func(_, _ chart.Range, index int, _, _ float64) float64 {
		if index < 0 || index >= len(sizes) || max <= min {
			return 6
		}
		return 4 + 8*(sizes[index]-min)/(max-min)
	}
}

func barWidth(total, count int) int {
	if count == 0 {
		return 40
	}
	w := (total - 120) / (count * 2)
	if w < 20 {
		w = 20
	}
	if w > 80 {
		w = 80
	}
	return w
}

func colorOrDefault(hex, fallback string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		hex = strings.TrimPrefix(fallback, "#")
	}
	return drawing.ColorFromHex(hex)
}
