// Package export renders the aggregated shopping list as a paginated PDF
// document. The layout is fixed: a centered title line on every page and
// numbered lines of the form "{index}. {name} — {amount} {unit}"; a new page
// starts when the configured number of lines is exhausted.
package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/foodgram/backend/internal/services"
)

// DefaultLinesPerPage is used when the caller passes a non-positive value.
const DefaultLinesPerPage = 30

const (
	titleFontSize = 16.0
	lineFontSize  = 12.0
	lineHeight    = 8.0 // mm
)

// SplitPages partitions items into pages of at most linesPerPage lines.
// Exported separately from the rendering so the pagination rule is testable
// without parsing PDF output.
func SplitPages(items []services.ReportItem, linesPerPage int) [][]services.ReportItem {
	if linesPerPage <= 0 {
		linesPerPage = DefaultLinesPerPage
	}
	var pages [][]services.ReportItem
	for start := 0; start < len(items); start += linesPerPage {
		end := start + linesPerPage
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end])
	}
	return pages
}

// Line formats one numbered report line.
func Line(it services.ReportItem) string {
	return fmt.Sprintf("%d. %s — %d %s", it.Index, it.Name, it.Amount, it.Unit)
}

// ShoppingListPDF renders the report into PDF bytes. The title is centered
// at the top of every page; lines wrap to a new page after linesPerPage
// entries.
func ShoppingListPDF(report *services.Report, linesPerPage int) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are single-byte; cp1251 covers the Cyrillic title and
	// ingredient names.
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")

	for _, page := range SplitPages(report.Items, linesPerPage) {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", titleFontSize)
		pdf.CellFormat(0, 12, tr(report.Title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
		pdf.SetFont("Arial", "", lineFontSize)
		for _, it := range page {
			pdf.CellFormat(0, lineHeight, tr(Line(it)), "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
