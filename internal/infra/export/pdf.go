package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// A4 portrait layout, millimetres.
const (
	pageWidth  = 210.0
	pageHeight = 297.0

	marginLeft    = 10.0
	marginTop     = 12.0
	footerBand    = 16.0
	contentWidth  = pageWidth - 2*marginLeft
	baseRowHeight = 8.0
	noteLineH     = 4.5
	headerRowH    = 9.0
	textLineH     = 5.0
)

// RenderPDF drives the paginator over the document rows. The analysis
// paragraph and header band render once, the table header repeats on every
// page, and each footer carries the title and its page number.
func RenderPDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Page breaks are the paginator's decision, not gofpdf's.
	pdf.SetAutoPageBreak(false, 0)
	// Core fonts are cp1252; accented names and the euro sign need the
	// translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pg := newPaginator(pageHeight, marginTop, footerBand)
	pdf.AddPage()
	paintBackground(pdf)
	renderHeaderBand(pdf, pg, doc, tr)
	renderTableHeader(pdf, pg, doc.Columns, tr)

	for _, row := range doc.Rows {
		rowHeight := measureRow(pdf, row, tr)
		if !pg.fits(rowHeight) {
			renderFooter(pdf, doc.Title, pg.pageIndex, tr)
			pdf.AddPage()
			pg.newPage()
			paintBackground(pdf)
			renderTableHeader(pdf, pg, doc.Columns, tr)
		}
		drawRow(pdf, pg, doc.Columns, row, rowHeight, tr)
	}
	renderFooter(pdf, doc.Title, pg.pageIndex, tr)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}
	return buf.Bytes(), nil
}

// measureRow computes a row's height before anything is drawn, so the fit
// decision and the drawing cannot disagree. A note adds one wrapped sub-line
// block under the cells.
func measureRow(pdf *gofpdf.Fpdf, row Row, tr func(string) string) float64 {
	height := baseRowHeight
	if row.Note != "" {
		pdf.SetFont("Helvetica", "I", 8)
		lines := pdf.SplitText(tr(row.Note), contentWidth-6)
		height += float64(len(lines))*noteLineH + 1.5
	}
	return height
}

func paintBackground(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(250, 250, 248)
	pdf.Rect(0, 0, pageWidth, pageHeight, "F")
}

func renderHeaderBand(pdf *gofpdf.Fpdf, pg *paginator, doc Document, tr func(string) string) {
	y := pg.place(10)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 10, tr(doc.Title), "", 0, "L", false, 0, "")

	y = pg.place(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 6, tr("Period: "+doc.Period), "", 0, "L", false, 0, "")

	if doc.Analysis != "" {
		pdf.SetFont("Helvetica", "", 9)
		lines := pdf.SplitText(tr(doc.Analysis), contentWidth)
		y = pg.place(float64(len(lines))*textLineH + 4)
		pdf.SetTextColor(60, 60, 60)
		pdf.SetXY(marginLeft, y+2)
		pdf.MultiCell(contentWidth, textLineH, tr(doc.Analysis), "", "L", false)
	}
	pg.place(3)
}

func renderTableHeader(pdf *gofpdf.Fpdf, pg *paginator, columns []Column, tr func(string) string) {
	y := pg.place(headerRowH)
	pdf.SetFillColor(34, 45, 65)
	pdf.Rect(marginLeft, y, contentWidth, headerRowH, "F")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(255, 255, 255)
	x := marginLeft
	for _, col := range columns {
		pdf.SetXY(x, y)
		pdf.CellFormat(col.Width, headerRowH, tr(col.Header), "", 0, "L", false, 0, "")
		x += col.Width
	}
}

func drawRow(pdf *gofpdf.Fpdf, pg *paginator, columns []Column, row Row, rowHeight float64, tr func(string) string) {
	y := pg.place(rowHeight)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(40, 40, 40)
	x := marginLeft
	for i, col := range columns {
		text := ""
		if i < len(row.Cells) {
			text = row.Cells[i]
		}
		pdf.SetXY(x, y)
		pdf.CellFormat(col.Width, baseRowHeight, tr(text), "", 0, "L", false, 0, "")
		x += col.Width
	}

	if row.Note != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(140, 90, 40)
		pdf.SetXY(marginLeft+6, y+baseRowHeight)
		pdf.MultiCell(contentWidth-6, noteLineH, tr(row.Note), "", "L", false)
	}

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(marginLeft, y+rowHeight, marginLeft+contentWidth, y+rowHeight)
}

func renderFooter(pdf *gofpdf.Fpdf, title string, pageIndex int, tr func(string) string) {
	y := pageHeight - 10
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth/2, 5, tr(title), "", 0, "L", false, 0, "")
	pdf.SetXY(marginLeft+contentWidth/2, y)
	pdf.CellFormat(contentWidth/2, 5, fmt.Sprintf("Page %d", pageIndex), "", 0, "R", false, 0, "")
}
