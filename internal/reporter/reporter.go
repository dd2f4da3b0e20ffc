// Package reporter writes the two run artifacts: the human-readable
// text report and the pipe-delimited enriched dataset. Neither writer
// produces a file for an empty record set.
package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang-sales-analytics-service/internal/analytics"
	"golang-sales-analytics-service/internal/enrichment"
	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/errors"
	"golang-sales-analytics-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// LowPerformerRevenueThreshold is the revenue floor below which a
// product is listed in the low-performers report section.
var LowPerformerRevenueThreshold = decimal.NewFromInt(5000)

// EnrichedHeader is the header row of the enriched dataset file
const EnrichedHeader = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region|API_Category|API_Brand|API_Rating|API_Match"

// ReportData collects everything the text report renders
type ReportData struct {
	GeneratedAt   time.Time
	Snapshot      *analytics.Snapshot
	LowPerformers []analytics.ProductStats
	Enrichment    *enrichment.Stats
}

// Writer renders and persists run artifacts
type Writer struct {
	logger logger.Logger
}

// NewWriter creates a new Writer
func NewWriter() *Writer {
	return &Writer{
		logger: logger.GetGlobalLogger().WithComponent("reporter"),
	}
}

// WriteReport renders the text report to path. A snapshot with zero
// transactions suppresses the file entirely.
func (w *Writer) WriteReport(path string, data *ReportData) error {
	if data == nil || data.Snapshot == nil || data.Snapshot.TransactionCount == 0 {
		w.logger.WithField("report_file", path).Info("No records to report, skipping report file")
		return nil
	}

	content := w.renderReport(data)
	if err := writeFile(path, content); err != nil {
		return err
	}

	w.logger.WithFields(logger.Fields{
		"report_file": path,
		"records":     data.Snapshot.TransactionCount,
	}).Info("Wrote analysis report")
	return nil
}

func (w *Writer) renderReport(data *ReportData) string {
	var b strings.Builder
	snapshot := data.Snapshot

	line := strings.Repeat("=", 60)
	b.WriteString(line + "\n")
	b.WriteString("SALES ANALYSIS REPORT\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", data.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Records analyzed: %d\n\n", snapshot.TransactionCount)

	b.WriteString("OVERALL SUMMARY\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "Total revenue:       $%s\n", snapshot.TotalRevenue.StringFixed(2))
	fmt.Fprintf(&b, "Transactions:        %d\n", snapshot.TransactionCount)
	fmt.Fprintf(&b, "Average order value: $%s\n", snapshot.AverageOrderValue.StringFixed(2))
	fmt.Fprintf(&b, "Date range:          %s to %s\n\n", snapshot.FirstDate, snapshot.LastDate)

	b.WriteString("SALES BY REGION\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "%-12s %14s %8s %9s\n", "Region", "Sales", "Txns", "Share")
	for _, region := range snapshot.Regions {
		fmt.Fprintf(&b, "%-12s %14s %8d %8s%%\n",
			region.Region,
			"$"+region.TotalSales.StringFixed(2),
			region.TransactionCount,
			region.Percentage.StringFixed(2))
	}
	b.WriteString("\n")

	b.WriteString("TOP 5 PRODUCTS BY REVENUE\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for i, product := range snapshot.TopProducts {
		fmt.Fprintf(&b, "%d. %s: $%s (%d units)\n",
			i+1, product.ProductName, product.TotalRevenue.StringFixed(2), product.TotalQuantity)
	}
	b.WriteString("\n")

	if snapshot.Peak != nil {
		b.WriteString("BEST DAY\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		fmt.Fprintf(&b, "%s with $%s across %d transactions\n\n",
			snapshot.Peak.Date, snapshot.Peak.Revenue.StringFixed(2), snapshot.Peak.TransactionCount)
	}

	b.WriteString(fmt.Sprintf("LOW PERFORMERS (revenue under $%s)\n", LowPerformerRevenueThreshold.StringFixed(2)))
	b.WriteString(strings.Repeat("-", 40) + "\n")
	if len(data.LowPerformers) == 0 {
		b.WriteString("None\n")
	}
	for _, product := range data.LowPerformers {
		fmt.Fprintf(&b, "%s: $%s (%d units)\n",
			product.ProductName, product.TotalRevenue.StringFixed(2), product.TotalQuantity)
	}
	b.WriteString("\n")

	if data.Enrichment != nil {
		b.WriteString("CATALOG ENRICHMENT\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		fmt.Fprintf(&b, "Matched: %d of %d (%.1f%%)\n",
			data.Enrichment.Matched, data.Enrichment.Total, data.Enrichment.MatchRate())
		if len(data.Enrichment.UnmatchedIDs) > 0 {
			fmt.Fprintf(&b, "Unmatched product ids (sample): %s\n",
				strings.Join(data.Enrichment.UnmatchedIDs, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString(line + "\n")
	return b.String()
}

// WriteEnriched persists the enriched dataset to path, pipe-delimited
// with a header row. An empty record set suppresses the file.
func (w *Writer) WriteEnriched(path string, records []*models.EnrichedTransaction) error {
	if len(records) == 0 {
		w.logger.WithField("enriched_file", path).Info("No records to persist, skipping enriched file")
		return nil
	}

	var b strings.Builder
	b.WriteString(EnrichedHeader + "\n")
	for _, record := range records {
		b.WriteString(formatEnrichedLine(record) + "\n")
	}

	if err := writeFile(path, b.String()); err != nil {
		return err
	}

	w.logger.WithFields(logger.Fields{
		"enriched_file": path,
		"records":       len(records),
	}).Info("Wrote enriched dataset")
	return nil
}

func formatEnrichedLine(record *models.EnrichedTransaction) string {
	fields := []string{
		record.TransactionID,
		record.Date,
		record.ProductID,
		record.ProductName,
		strconv.Itoa(record.Quantity),
		record.UnitPrice.String(),
		record.CustomerID,
		record.Region,
		record.APICategory,
		record.APIBrand,
		strconv.FormatFloat(record.APIRating, 'f', -1, 64),
		strconv.FormatBool(record.APIMatch),
	}
	return strings.Join(fields, "|")
}

// writeFile creates the parent directory if needed and writes content
// in a single open-write-close scope.
func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.FileError(errors.CodeDirectoryError, dir, err).
				WithSuggestion("Check that the output directory is writable")
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.FileError(errors.CodeWriteFailed, path, err).
			WithSuggestion("Check disk space and file permissions")
	}
	return nil
}
