package report

// Chart specifications cross the API boundary instead of rendered images;
// the PDF exporter turns them into rasters server-side.

type ChartKind string

const (
	ChartScatter     ChartKind = "scatter"
	ChartBars        ChartKind = "bars"
	ChartStackedBars ChartKind = "stacked_bars"
)

// Dashboard palette carried over from the source charts.
const (
	ColorGoals   = "#1f77b4"
	ColorAssists = "#ff7f0e"
)

// Point is one scatter marker. Size scales the marker (minutes played on
// the performance chart); Label names it in tooltips.
type Point struct {
	X     float64
	Y     float64
	Size  float64
	Label string
}

// Series holds one named data series. Scatter charts fill Points; bar
// charts fill Values aligned with the chart's Labels.
type Series struct {
	Name   string
	Color  string
	Points []Point
	Values []float64
}

// RefLine is a reference marker like the average-shots vertical line.
type RefLine struct {
	Axis  string // "x" or "y"
	Value float64
	Label string
}

// ChartSpec fully describes one chart.
type ChartSpec struct {
	Kind     ChartKind
	Title    string
	XLabel   string
	YLabel   string
	Labels   []string
	Series   []Series
	RefLines []RefLine
}

// TableColumn headers of the ranked top-10 table, in render order.
var TableColumns = []string{"Jugador", "Equipo", "Goles", "Asistencias", "Minutos"}

// TableRow is one row of the ranked table, cells aligned with TableColumns.
type TableRow struct {
	Cells []string
}

// Document is a rendered export. Warnings carry the sections that were
// omitted because their chart failed to render.
type Document struct {
	Filename string
	Bytes    []byte
	Warnings []string
}
