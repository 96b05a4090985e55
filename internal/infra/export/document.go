package export

import (
	"fmt"

	"github.com/salescope/pipeline-insights/internal/entity"
	"github.com/salescope/pipeline-insights/internal/usecase"
)

// Column is one fixed-width table column. Widths are millimetres in the PDF
// layout; the CSV writer only uses the headers.
type Column struct {
	Header string
	Width  float64
}

// Row is one pre-formatted table line. Note, when present, renders as a
// wrapped sub-line under the cells and is measured before placement.
type Row struct {
	Cells []string
	Note  string
}

// Document is the renderer-independent report: same content feeds the CSV
// flattening and the paginated PDF.
type Document struct {
	Title    string
	Period   string
	Analysis string
	Columns  []Column
	Rows     []Row
}

func periodLabel(window entity.TimeWindow) string {
	if window.IsZero() {
		return "All time"
	}
	// To is exclusive; show the last included day.
	last := window.To.AddDate(0, 0, -1)
	return fmt.Sprintf("%s — %s", window.From.Format("2006-01-02"), last.Format("2006-01-02"))
}

var setterColumns = []Column{
	{Header: "Setter", Width: 34},
	{Header: "Leads", Width: 14},
	{Header: "RV1 booked", Width: 20},
	{Header: "RV1 honored", Width: 20},
	{Header: "RV1 canceled", Width: 21},
	{Header: "Qualif. rate", Width: 19},
	{Header: "Cancel rate", Width: 18},
	{Header: "TTFC", Width: 16},
	{Header: "Sales", Width: 12},
	{Header: "Revenue", Width: 22},
}

func BuildSetterDocument(rows []usecase.SetterRow, window entity.TimeWindow) Document {
	doc := Document{
		Title:    "Spotlight — Setters",
		Period:   periodLabel(window),
		Analysis: usecase.SetterAnalysis(rows),
		Columns:  setterColumns,
	}
	for _, r := range rows {
		row := Row{Cells: []string{
			r.Name,
			FormatInt(r.LeadsReceived),
			FormatInt(r.RV1Planned),
			FormatInt(r.RV1Honored),
			FormatInt(r.RV1Canceled),
			FormatPct(r.QualificationRate),
			FormatPct(r.CancelRate),
			FormatMinutes(r.TTFCAvgMinutes),
			FormatInt(r.Sales),
			FormatEuro(r.Revenue),
		}}
		if r.CancelRate != nil && *r.CancelRate >= 0.20 {
			row.Note = fmt.Sprintf("High cancellation level: %s of %s's booked RV1 were canceled over the period.",
				FormatPct(r.CancelRate), r.Name)
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc
}

var closerColumns = []Column{
	{Header: "Closer", Width: 36},
	{Header: "RV1 planned", Width: 21},
	{Header: "RV1 honored", Width: 21},
	{Header: "RV1 canceled", Width: 22},
	{Header: "RV2 planned", Width: 21},
	{Header: "RV2 canceled", Width: 22},
	{Header: "Closing rate", Width: 20},
	{Header: "Sales", Width: 13},
	{Header: "Revenue", Width: 20},
}

func BuildCloserDocument(rows []usecase.CloserRow, window entity.TimeWindow) Document {
	doc := Document{
		Title:    "Spotlight — Closers",
		Period:   periodLabel(window),
		Analysis: usecase.CloserAnalysis(rows),
		Columns:  closerColumns,
	}
	for _, r := range rows {
		row := Row{Cells: []string{
			r.Name,
			FormatInt(r.RV1Planned),
			FormatInt(r.RV1Honored),
			FormatInt(r.RV1Canceled),
			FormatInt(r.RV2Planned),
			FormatInt(r.RV2Canceled),
			FormatPct(r.ClosingRate),
			FormatInt(r.SalesClosed),
			FormatEuro(r.RevenueTotal),
		}}
		if r.RV1CancelRate != nil && *r.RV1CancelRate >= 0.20 {
			row.Note = fmt.Sprintf("High cancellation level: %s of %s's RV1 were canceled over the period.",
				FormatPct(r.RV1CancelRate), r.Name)
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc
}
