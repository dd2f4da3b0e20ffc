package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"golang-sales-analytics-service/pkg/errors"

	"github.com/shopspring/decimal"
)

func newTestParser(t *testing.T) *SalesParser {
	t.Helper()
	parser, err := NewSalesParser(nil)
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	return parser
}

func TestNewSalesParser(t *testing.T) {
	tests := []struct {
		name        string
		config      *SalesParserConfig
		expectError bool
	}{
		{"nil config uses defaults", nil, false},
		{"valid config", DefaultSalesParserConfig(), false},
		{"empty delimiter", &SalesParserConfig{Delimiter: "", FieldCount: 8}, true},
		{"zero field count", &SalesParserConfig{Delimiter: "|", FieldCount: 0}, true},
		{"negative sample cap", &SalesParserConfig{Delimiter: "|", FieldCount: 8, MaxSampleErrors: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := NewSalesParser(tt.config)
			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parser == nil {
				t.Fatal("expected parser but got nil")
			}
		})
	}
}

func TestParseLinesWellFormed(t *testing.T) {
	parser := newTestParser(t)

	lines := []string{
		"T1001|2024-01-15|P101|Widget|2|10.50|C001|North",
		"  T1002 | 2024-01-16 | P102 | Gadget | 1 | 5.00 | C002 | South  ",
	}

	transactions, stats := parser.ParseLines(lines)

	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	if stats.RecordsParsed != 2 || stats.LinesDropped != 0 {
		t.Errorf("unexpected stats: %s", stats)
	}

	first := transactions[0]
	if first.TransactionID != "T1001" || first.Date != "2024-01-15" ||
		first.ProductID != "P101" || first.ProductName != "Widget" ||
		first.Quantity != 2 || !first.UnitPrice.Equal(decimal.NewFromFloat(10.50)) ||
		first.CustomerID != "C001" || first.Region != "North" {
		t.Errorf("unexpected first transaction: %s", first)
	}

	// Whitespace around every field must be trimmed.
	second := transactions[1]
	if second.TransactionID != "T1002" || second.Region != "South" {
		t.Errorf("expected trimmed fields, got %s", second)
	}
}

func TestParseLinesThousandsSeparators(t *testing.T) {
	parser := newTestParser(t)

	lines := []string{
		"T1001|2024-01-15|P101|Widget|1,000|1,234.56|C001|North",
	}

	transactions, _ := parser.ParseLines(lines)
	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(transactions))
	}

	if transactions[0].Quantity != 1000 {
		t.Errorf("expected quantity 1000, got %d", transactions[0].Quantity)
	}
	if !transactions[0].UnitPrice.Equal(decimal.NewFromFloat(1234.56)) {
		t.Errorf("expected price 1234.56, got %s", transactions[0].UnitPrice)
	}
}

func TestParseLinesProductNameCommasStripped(t *testing.T) {
	parser := newTestParser(t)

	lines := []string{
		"T1001|2024-01-15|P101|Widget, Deluxe|1|5.00|C001|North",
	}

	transactions, _ := parser.ParseLines(lines)
	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(transactions))
	}
	if transactions[0].ProductName != "Widget Deluxe" {
		t.Errorf("expected commas stripped, got %q", transactions[0].ProductName)
	}
}

func TestParseLinesDropsMalformed(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "T1001|2024-01-15|P101|Widget|2|10.50|C001"},
		{"too many fields", "T1001|2024-01-15|P101|Widget|2|10.50|C001|North|extra"},
		{"non-numeric quantity", "T1001|2024-01-15|P101|Widget|two|10.50|C001|North"},
		{"non-numeric price", "T1001|2024-01-15|P101|Widget|2|cheap|C001|North"},
		{"fractional quantity", "T1001|2024-01-15|P101|Widget|2.5|10.50|C001|North"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactions, stats := parser.ParseLines([]string{tt.line})
			if len(transactions) != 0 {
				t.Errorf("malformed line should be dropped, got %d transactions", len(transactions))
			}
			if stats.LinesDropped != 1 {
				t.Errorf("expected 1 dropped line, got %d", stats.LinesDropped)
			}
			if len(stats.Errors) != 1 {
				t.Errorf("expected 1 sampled error, got %d", len(stats.Errors))
			}
		})
	}
}

func TestParseLinesOrderPreserved(t *testing.T) {
	parser := newTestParser(t)

	lines := []string{
		"T3|2024-01-03|P3|C|1|1.00|C3|North",
		"bad line",
		"T1|2024-01-01|P1|A|1|1.00|C1|North",
		"T2|2024-01-02|P2|B|1|1.00|C2|North",
	}

	transactions, stats := parser.ParseLines(lines)
	if len(transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(transactions))
	}
	if stats.LinesDropped != 1 {
		t.Errorf("expected 1 dropped line, got %d", stats.LinesDropped)
	}

	wantOrder := []string{"T3", "T1", "T2"}
	for i, want := range wantOrder {
		if transactions[i].TransactionID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, transactions[i].TransactionID)
		}
	}
}

func TestParseStatsSampleCap(t *testing.T) {
	parser, err := NewSalesParser(&SalesParserConfig{
		Delimiter:       "|",
		FieldCount:      8,
		MaxSampleErrors: 2,
	})
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}

	lines := []string{"bad1", "bad2", "bad3", "bad4"}
	_, stats := parser.ParseLines(lines)

	if stats.LinesDropped != 4 {
		t.Errorf("expected all 4 lines counted, got %d", stats.LinesDropped)
	}
	if len(stats.Errors) != 2 {
		t.Errorf("expected sample cap of 2, got %d retained errors", len(stats.Errors))
	}
}

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestFileReaderSkipsHeaderAndBlankLines(t *testing.T) {
	content := "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region\n" +
		"T1|2024-01-01|P101|Widget|2|10.00|C1|North\n" +
		"\n" +
		"   \n" +
		"T2|2024-01-01|P999|Gadget|1|5.00|C2|South\n"

	path := writeTempFile(t, "sales.txt", []byte(content))
	lines, err := NewFileReader().ReadLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 data lines, got %d", len(lines))
	}
	if lines[0] != "T1|2024-01-01|P101|Widget|2|10.00|C1|North" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
}

func TestFileReaderHeaderOnlyFile(t *testing.T) {
	path := writeTempFile(t, "header_only.txt",
		[]byte("TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region\n"))

	lines, err := NewFileReader().ReadLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("header-only file should yield zero data lines, got %d", len(lines))
	}
}

func TestFileReaderMissingFile(t *testing.T) {
	_, err := NewFileReader().ReadLines(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	analyzerErr, ok := errors.AsAnalyzerError(err)
	if !ok {
		t.Fatalf("expected AnalyzerError, got %T", err)
	}
	if analyzerErr.Code != errors.CodeFileNotFound {
		t.Errorf("expected code %s, got %s", errors.CodeFileNotFound, analyzerErr.Code)
	}
}

func TestFileReaderLatin1Fallback(t *testing.T) {
	// 0xE9 is 'é' in Latin-1 but invalid as a standalone UTF-8 byte.
	content := []byte("TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region\n" +
		"T1|2024-01-01|P101|Caf\xe9|2|10.00|C1|North\n")

	path := writeTempFile(t, "latin1.txt", content)
	lines, err := NewFileReader().ReadLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected 1 data line, got %d", len(lines))
	}
	if lines[0] != "T1|2024-01-01|P101|Café|2|10.00|C1|North" {
		t.Errorf("expected Latin-1 decoded line, got %q", lines[0])
	}
}

func TestParseFileEndToEnd(t *testing.T) {
	content := "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region\n" +
		"T1|2024-01-01|P101|Widget|2|10.00|C1|North\n" +
		"T2|2024-01-01|P999|Gadget|0|5.00|C2|South\n" +
		"garbage\n"

	path := writeTempFile(t, "sales.txt", []byte(content))
	parser := newTestParser(t)

	transactions, stats, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Zero quantity parses fine; it is the validator's job to drop it.
	if len(transactions) != 2 {
		t.Fatalf("expected 2 parsed transactions, got %d", len(transactions))
	}
	if stats.LinesDropped != 1 {
		t.Errorf("expected 1 dropped line, got %d", stats.LinesDropped)
	}
}
