package parsers

import (
	"fmt"
)

// SalesFileFieldCount is the exact number of pipe-delimited fields every
// data row must carry:
// TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
const SalesFileFieldCount = 8

// SalesParserConfig holds configuration for parsing sales data files
type SalesParserConfig struct {
	// Delimiter separating fields on each line
	Delimiter string

	// FieldCount is the required number of fields per data row
	FieldCount int

	// HasHeader indicates whether the first line of the file is a header
	// row that must be discarded before parsing
	HasHeader bool

	// MaxSampleErrors caps how many dropped-line reasons are retained in
	// the stats for logging
	MaxSampleErrors int
}

// DefaultSalesParserConfig returns the standard pipe-delimited configuration
func DefaultSalesParserConfig() *SalesParserConfig {
	return &SalesParserConfig{
		Delimiter:       "|",
		FieldCount:      SalesFileFieldCount,
		HasHeader:       true,
		MaxSampleErrors: 100,
	}
}

// Validate validates the parser configuration
func (c *SalesParserConfig) Validate() error {
	if c.Delimiter == "" {
		return fmt.Errorf("delimiter cannot be empty")
	}

	if c.FieldCount <= 0 {
		return fmt.Errorf("field count must be positive, got %d", c.FieldCount)
	}

	if c.MaxSampleErrors < 0 {
		return fmt.Errorf("max sample errors cannot be negative, got %d", c.MaxSampleErrors)
	}

	return nil
}
