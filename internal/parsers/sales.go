// Package parsers turns raw delimited sales data into typed transaction
// records.
//
// The package handles the realities of hand-maintained sales exports:
// mixed encodings (UTF-8, Latin-1, Windows-1252), thousands separators in
// numeric fields, stray whitespace, and malformed rows. Malformed lines
// are dropped and counted, never surfaced individually — the line-loss
// counter in ParseStats is the only signal.
package parsers

import (
	"fmt"
	"strings"

	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/errors"
	"golang-sales-analytics-service/pkg/logger"
)

// ParseError records why a single line was dropped during parsing
type ParseError struct {
	Line    int
	Value   string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at line %d ('%s'): %s: %v", e.Line, e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("parse error at line %d ('%s'): %s", e.Line, e.Value, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseStats holds statistics about a parsing operation
type ParseStats struct {
	TotalLines    int
	RecordsParsed int
	LinesDropped  int
	Errors        []*ParseError

	maxSamples int
}

// NewParseStats creates a new ParseStats instance
func NewParseStats(maxSamples int) *ParseStats {
	return &ParseStats{
		Errors:     make([]*ParseError, 0),
		maxSamples: maxSamples,
	}
}

// AddError counts a dropped line, retaining the reason up to the sample cap
func (ps *ParseStats) AddError(err *ParseError) {
	ps.LinesDropped++
	if ps.maxSamples == 0 || len(ps.Errors) < ps.maxSamples {
		ps.Errors = append(ps.Errors, err)
	}
}

// HasErrors returns true if any lines were dropped
func (ps *ParseStats) HasErrors() bool {
	return ps.LinesDropped > 0
}

// String returns a human-readable summary of parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Parsed %d lines, %d records, %d dropped",
		ps.TotalLines, ps.RecordsParsed, ps.LinesDropped)
}

// GetSampleErrors returns up to maxSamples dropped-line reasons for logging
func (ps *ParseStats) GetSampleErrors(maxSamples int) []string {
	if len(ps.Errors) == 0 {
		return nil
	}

	limit := len(ps.Errors)
	if maxSamples > 0 && maxSamples < limit {
		limit = maxSamples
	}

	samples := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		samples = append(samples, ps.Errors[i].Error())
	}
	return samples
}

// SalesParser parses pipe-delimited sales transaction lines
type SalesParser struct {
	config *SalesParserConfig
	logger logger.Logger
}

// NewSalesParser creates a new SalesParser with the given configuration
func NewSalesParser(config *SalesParserConfig) (*SalesParser, error) {
	if config == nil {
		config = DefaultSalesParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"sales_parser_config",
			config,
			err,
		).WithSuggestion("Check the sales parser configuration values")
	}

	log := logger.GetGlobalLogger().WithComponent("sales_parser")
	log.WithFields(logger.Fields{
		"delimiter":   config.Delimiter,
		"field_count": config.FieldCount,
	}).Debug("Created sales parser")

	return &SalesParser{
		config: config,
		logger: log,
	}, nil
}

// ParseLines parses raw data lines (header already stripped) into
// transactions. Order is preserved relative to the input; malformed lines
// are dropped and counted in the returned stats. The function is pure:
// same lines in, same records and stats out.
func (sp *SalesParser) ParseLines(lines []string) ([]*models.Transaction, *ParseStats) {
	stats := NewParseStats(sp.config.MaxSampleErrors)
	stats.TotalLines = len(lines)

	transactions := make([]*models.Transaction, 0, len(lines))
	for i, line := range lines {
		lineNum := i + 1

		transaction, parseErr := sp.parseLine(line, lineNum)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		transactions = append(transactions, transaction)
		stats.RecordsParsed++
	}

	sp.logger.WithFields(logger.Fields{
		"total_lines":    stats.TotalLines,
		"records_parsed": stats.RecordsParsed,
		"lines_dropped":  stats.LinesDropped,
	}).Info("Sales parsing completed")

	if stats.HasErrors() {
		sp.logger.WithField("sample_errors", stats.GetSampleErrors(3)).Warn("Dropped malformed lines during parsing")
	}

	return transactions, stats
}

// parseLine converts a single delimited line into a Transaction
func (sp *SalesParser) parseLine(line string, lineNum int) (*models.Transaction, *ParseError) {
	parts := strings.Split(line, sp.config.Delimiter)
	if len(parts) != sp.config.FieldCount {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   truncateForLog(line),
			Message: fmt.Sprintf("expected %d fields, got %d", sp.config.FieldCount, len(parts)),
		}
	}

	quantity, err := models.ParseQuantityFromString(parts[4])
	if err != nil {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   strings.TrimSpace(parts[4]),
			Message: "invalid quantity",
			Err:     err,
		}
	}

	unitPrice, err := models.ParseDecimalFromString(parts[5])
	if err != nil {
		return nil, &ParseError{
			Line:    lineNum,
			Value:   strings.TrimSpace(parts[5]),
			Message: "invalid unit price",
			Err:     err,
		}
	}

	return models.NewTransaction(
		strings.TrimSpace(parts[0]),
		strings.TrimSpace(parts[1]),
		strings.TrimSpace(parts[2]),
		models.CleanProductName(parts[3]),
		quantity,
		unitPrice,
		strings.TrimSpace(parts[6]),
		strings.TrimSpace(parts[7]),
	), nil
}

func truncateForLog(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// ParseFile reads and parses a sales data file in one step
func (sp *SalesParser) ParseFile(path string) ([]*models.Transaction, *ParseStats, error) {
	reader := NewFileReader()

	lines, err := reader.ReadLines(path)
	if err != nil {
		return nil, nil, err
	}

	transactions, stats := sp.ParseLines(lines)
	return transactions, stats, nil
}
