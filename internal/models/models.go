// Package models defines the core data structures of the sales analytics
// pipeline: parsed transactions, their enriched form, and catalog products.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionIDPrefix is the reserved prefix every valid transaction ID
// must start with.
const TransactionIDPrefix = "T"

// CatalogNoMatch is the sentinel used for category and brand when a
// transaction has no catalog match.
const CatalogNoMatch = "None"

// Transaction represents one parsed sales record.
//
// Date is kept as the raw YYYY-MM-DD string and compared
// lexicographically; it is never interpreted as a calendar date.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Date          string          `json:"date"`
	ProductID     string          `json:"productID"`
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	CustomerID    string          `json:"customerID"`
	Region        string          `json:"region"`
}

// NewTransaction creates a new Transaction instance
func NewTransaction(id, date, productID, productName string, quantity int, unitPrice decimal.Decimal, customerID, region string) *Transaction {
	return &Transaction{
		TransactionID: id,
		Date:          date,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    customerID,
		Region:        region,
	}
}

// Amount returns Quantity × UnitPrice. It is always derived, never stored.
func (t *Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// Validate performs the structural business-rule checks. A transaction
// failing any of these is dropped by the validator, never repaired.
func (t *Transaction) Validate() error {
	if t.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", t.Quantity)
	}

	if !t.UnitPrice.IsPositive() {
		return fmt.Errorf("unit price must be positive, got %s", t.UnitPrice.String())
	}

	if strings.TrimSpace(t.Region) == "" {
		return fmt.Errorf("region cannot be empty")
	}

	if strings.TrimSpace(t.CustomerID) == "" {
		return fmt.Errorf("customer ID cannot be empty")
	}

	if !strings.HasPrefix(t.TransactionID, TransactionIDPrefix) {
		return fmt.Errorf("transaction ID must start with '%s', got '%s'", TransactionIDPrefix, t.TransactionID)
	}

	return nil
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Date: %s, Product: %s, Qty: %d, Price: %s, Customer: %s, Region: %s}",
		t.TransactionID, t.Date, t.ProductID, t.Quantity, t.UnitPrice.String(), t.CustomerID, t.Region)
}

// Equals compares two Transaction instances for equality
func (t *Transaction) Equals(other *Transaction) bool {
	if other == nil {
		return false
	}

	return t.TransactionID == other.TransactionID &&
		t.Date == other.Date &&
		t.ProductID == other.ProductID &&
		t.ProductName == other.ProductName &&
		t.Quantity == other.Quantity &&
		t.UnitPrice.Equal(other.UnitPrice) &&
		t.CustomerID == other.CustomerID &&
		t.Region == other.Region
}

// EnrichedTransaction is a Transaction augmented with catalog metadata.
// It is always a copy; enrichment never mutates the validated set.
type EnrichedTransaction struct {
	Transaction

	APICategory string  `json:"apiCategory"`
	APIBrand    string  `json:"apiBrand"`
	APIRating   float64 `json:"apiRating"`
	APIMatch    bool    `json:"apiMatch"`
}

// NewUnmatchedTransaction copies t with the no-match sentinel defaults
func NewUnmatchedTransaction(t *Transaction) *EnrichedTransaction {
	return &EnrichedTransaction{
		Transaction: *t,
		APICategory: CatalogNoMatch,
		APIBrand:    CatalogNoMatch,
		APIRating:   0.0,
		APIMatch:    false,
	}
}

// CatalogProduct represents one product entry from the external catalog
type CatalogProduct struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Rating   float64 `json:"rating"`
}

// Utility functions for field parsing

// ParseDecimalFromString parses a decimal value from string, stripping
// currency symbols and thousands separators first.
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseQuantityFromString parses an integer quantity, stripping thousands
// separators first.
func ParseQuantityFromString(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("quantity string cannot be empty")
	}

	s = strings.ReplaceAll(s, ",", "")

	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity format '%s': %w", s, err)
	}

	return q, nil
}

// CleanProductName trims whitespace and strips embedded commas, which
// would otherwise corrupt downstream delimited output.
func CleanProductName(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

// ExtractNumericProductID pulls the numeric part out of a product ID like
// "P109" -> 109. Returns false when the ID contains no digits at all, so
// malformed IDs resolve to "no match" instead of an error.
func ExtractNumericProductID(productID string) (int, bool) {
	var digits strings.Builder
	for _, r := range productID {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0, false
	}

	id, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}

	return id, true
}
