// Package reporting exports registry snapshots to shareable formats.
package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

// PDFExporter exports asset inventories to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportInventory generates a PDF listing every tracked asset with its
// freshness and signal state as of the given time.
func (e *PDFExporter) ExportInventory(snaps []domain.Snapshot, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, generatedAt)
	e.addSummary(pdf, snaps)
	e.addAssetTable(pdf, snaps)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// addHeader adds the report title and generation timestamp
func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, generatedAt time.Time) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 15, "Asset Inventory", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	dateStr := fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, dateStr, "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

// addSummary adds asset counts per freshness band
func (e *PDFExporter) addSummary(pdf *gofpdf.Fpdf, snaps []domain.Snapshot) {
	counts := map[domain.FreshnessBand]int{}
	for _, s := range snaps {
		counts[s.Freshness]++
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Overview", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	summary := fmt.Sprintf("Tracked assets: %d    Fresh: %d    Stale: %d    Lost: %d",
		len(snaps),
		counts[domain.FreshnessFresh],
		counts[domain.FreshnessStale],
		counts[domain.FreshnessLost])
	pdf.CellFormat(0, 6, summary, "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

// addAssetTable adds one row per asset
func (e *PDFExporter) addAssetTable(pdf *gofpdf.Fpdf, snaps []domain.Snapshot) {
	headers := []string{"Label", "Identity", "RSSI", "Freshness", "Signal", "Last Seen"}
	widths := []float64{40, 50, 15, 22, 22, 36}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 235, 245)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, s := range snaps {
		r, g, b := e.bandColor(s.Freshness)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(widths[0], 6, truncate(s.Label, 24), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, truncate(s.Identity, 30), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", s.RSSI), "1", 0, "R", false, 0, "")
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(widths[3], 6, string(s.Freshness), "1", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(widths[4], 6, string(s.Signal), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, s.LastSeen.Format("2006-01-02 15:04:05"), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}

// bandColor returns the RGB accent for a freshness band
func (e *PDFExporter) bandColor(band domain.FreshnessBand) (int, int, int) {
	switch band {
	case domain.FreshnessFresh:
		return 0, 128, 0
	case domain.FreshnessStale:
		return 200, 130, 0
	default:
		return 180, 0, 0
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
