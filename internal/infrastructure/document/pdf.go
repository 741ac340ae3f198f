package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/valyala/bytebufferpool"

	"github.com/german-fros/tablero-api/internal/domain/report"
)

// ReportFilename is fixed; the download always arrives under this name.
const ReportFilename = "Reporte.pdf"

// AllFacetLabel names an unset season or team facet in the metadata block
// and in API responses.
const AllFacetLabel = "Todos"

const metadataTimeLayout = "02/01/2006 15:04"

// Display caps per ranked-table column, aligned with report.TableColumns.
// Zero means no cap.
var tableCellLimits = []int{20, 15, 0, 0, 0}

var tableColumnWidths = []float64{60, 45, 25, 30, 25}

// ChartImage is an already-rendered section raster. Assembly skips entries
// with empty bytes, which is how omitted sections arrive.
type ChartImage struct {
	Name string
	PNG  []byte
}

// ReportInput is everything the PDF needs, in render order: title and
// metadata, chart rasters, ranked table.
type ReportInput struct {
	Title       string
	GeneratedAt time.Time
	Season      string
	Team        string
	SyntheticXG bool
	Fallback    bool
	Charts      []ChartImage
	Table       []report.TableRow
}

type PDFBuilder struct{}

func NewPDFBuilder() *PDFBuilder {
	return &PDFBuilder{}
}

// Build assembles the document. It only fails when the PDF writer itself
// errors; missing sections and empty tables still produce a document.
func (b *PDFBuilder) Build(input ReportInput) ([]byte, error) {
	title := input.Title
	if title == "" {
		title = "Reporte de Rendimiento"
	}

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(title, true)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(60, 60, 60)
	writeMetaLine(doc, tr, "Generado", input.GeneratedAt.Format(metadataTimeLayout))
	writeMetaLine(doc, tr, "Temporada", orAllFacet(input.Season))
	writeMetaLine(doc, tr, "Equipo", orAllFacet(input.Team))
	if input.SyntheticXG {
		writeCaveat(doc, tr, "xG/xA estimados a partir de goles y asistencias.")
	}
	if input.Fallback {
		writeCaveat(doc, tr, "Datos de demostración: la fuente original no estaba disponible.")
	}
	doc.SetTextColor(0, 0, 0)
	doc.Ln(4)

	left, _, right, _ := doc.GetMargins()
	pageW, _ := doc.GetPageSize()
	contentW := pageW - left - right

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range input.Charts {
		if len(img.PNG) == 0 {
			continue
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("chart-%d", i)
		}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.PNG))
		doc.ImageOptions(name, left, 0, contentW, 0, true, opts, 0, "")
		doc.Ln(4)
	}

	writeRankedTable(doc, tr, input.Table)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := doc.Output(buf); err != nil {
		return nil, errors.Wrap(err, "write pdf")
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func writeMetaLine(doc *fpdf.Fpdf, tr func(string) string, label, value string) {
	doc.CellFormat(0, 5, tr(label+": "+value), "", 1, "L", false, 0, "")
}

func writeCaveat(doc *fpdf.Fpdf, tr func(string) string, text string) {
	doc.SetFont("Helvetica", "I", 9)
	doc.CellFormat(0, 5, tr(text), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
}

func writeRankedTable(doc *fpdf.Fpdf, tr func(string) string, rows []report.TableRow) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 8, tr("Top 10 del ranking"), "", 1, "L", false, 0, "")

	var tableW float64
	for _, w := range tableColumnWidths {
		tableW += w
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(31, 119, 180)
	doc.SetTextColor(255, 255, 255)
	for i, col := range report.TableColumns {
		doc.CellFormat(tableColumnWidths[i], 7, tr(col), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(0, 0, 0)
	if len(rows) == 0 {
		doc.CellFormat(tableW, 7, tr("Sin datos para los filtros seleccionados."), "1", 1, "C", false, 0, "")
		return
	}

	doc.SetFillColor(240, 244, 248)
	fill := false
	for _, row := range rows {
		for i := range report.TableColumns {
			cell := ""
			if i < len(row.Cells) {
				cell = truncateCell(row.Cells[i], tableCellLimits[i])
			}
			align := "L"
			if i >= 2 {
				align = "R"
			}
			doc.CellFormat(tableColumnWidths[i], 6, tr(cell), "1", 0, align, fill, 0, "")
		}
		doc.Ln(-1)
		fill = !fill
	}
}

// truncateCell caps by rune count so accented names keep whole characters.
func truncateCell(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func orAllFacet(v string) string {
	if v == "" {
		return AllFacetLabel
	}
	return v
}
