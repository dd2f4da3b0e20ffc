// Package validator removes structurally invalid transactions and applies
// the optional user-supplied region and amount-range filters.
//
// Checks are applied per record in a fixed precedence: structural
// validity first, then the region filter, then the amount range. The
// ordering matters — it decides which counter absorbs a given record, and
// the filter counters only ever see records that already passed the
// structural check. The summary counters are therefore partition sizes
// over successively narrowed subsets, not a partition of the input.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Options holds the optional filter parameters. Nil bounds and an empty
// region mean "no filter".
type Options struct {
	// Region is matched exactly but case-insensitively
	Region string

	// MinAmount is an inclusive lower bound on Quantity × UnitPrice
	MinAmount *decimal.Decimal

	// MaxAmount is an inclusive upper bound on Quantity × UnitPrice
	MaxAmount *decimal.Decimal
}

// HasFilters reports whether any optional filter is active
func (o *Options) HasFilters() bool {
	if o == nil {
		return false
	}
	return o.Region != "" || o.MinAmount != nil || o.MaxAmount != nil
}

// Validate checks the filter options for consistency
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	if o.MinAmount != nil && o.MaxAmount != nil && o.MinAmount.GreaterThan(*o.MaxAmount) {
		return fmt.Errorf("min amount %s exceeds max amount %s", o.MinAmount, o.MaxAmount)
	}
	return nil
}

// Summary reports what happened to the input set
type Summary struct {
	TotalInput       int `json:"total_input"`
	InvalidRecords   int `json:"invalid_records"`
	FilteredByRegion int `json:"filtered_by_region"`
	FilteredByAmount int `json:"filtered_by_amount"`
	FinalCount       int `json:"final_count"`
}

// String returns a human-readable summary
func (s *Summary) String() string {
	return fmt.Sprintf("Validated %d records: %d invalid, %d filtered by region, %d filtered by amount, %d kept",
		s.TotalInput, s.InvalidRecords, s.FilteredByRegion, s.FilteredByAmount, s.FinalCount)
}

// Validator applies structural checks and optional filters to parsed
// transactions
type Validator struct {
	logger logger.Logger
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{
		logger: logger.GetGlobalLogger().WithComponent("validator"),
	}
}

// Apply validates and filters the transactions, returning the surviving
// records (input order preserved) and a summary of the drops. The input
// slice is never modified.
func (v *Validator) Apply(transactions []*models.Transaction, opts *Options) ([]*models.Transaction, *Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	summary := &Summary{TotalInput: len(transactions)}
	valid := make([]*models.Transaction, 0, len(transactions))

	filterRegion := ""
	if opts != nil {
		filterRegion = strings.ToLower(strings.TrimSpace(opts.Region))
	}

	for _, txn := range transactions {
		// Structural validity always runs first.
		if err := txn.Validate(); err != nil {
			summary.InvalidRecords++
			v.logger.WithFields(logger.Fields{
				"transaction_id": txn.TransactionID,
				"reason":         err.Error(),
			}).Debug("Dropped invalid record")
			continue
		}

		if filterRegion != "" && strings.ToLower(txn.Region) != filterRegion {
			summary.FilteredByRegion++
			continue
		}

		if opts != nil && (opts.MinAmount != nil || opts.MaxAmount != nil) {
			amount := txn.Amount()
			if opts.MinAmount != nil && amount.LessThan(*opts.MinAmount) {
				summary.FilteredByAmount++
				continue
			}
			if opts.MaxAmount != nil && amount.GreaterThan(*opts.MaxAmount) {
				summary.FilteredByAmount++
				continue
			}
		}

		valid = append(valid, txn)
	}

	summary.FinalCount = len(valid)

	v.logger.WithFields(logger.Fields{
		"total_input":        summary.TotalInput,
		"invalid_records":    summary.InvalidRecords,
		"filtered_by_region": summary.FilteredByRegion,
		"filtered_by_amount": summary.FilteredByAmount,
		"final_count":        summary.FinalCount,
	}).Info("Validation and filtering completed")

	return valid, summary, nil
}

// AvailableRegions returns the sorted distinct non-empty regions in the
// given set, used for the interactive filter prompt.
func AvailableRegions(transactions []*models.Transaction) []string {
	seen := make(map[string]bool)
	var regions []string
	for _, txn := range transactions {
		if txn.Region == "" || seen[txn.Region] {
			continue
		}
		seen[txn.Region] = true
		regions = append(regions, txn.Region)
	}

	sort.Strings(regions)
	return regions
}

// AmountRange returns the minimum and maximum transaction amounts in the
// set, used for the interactive filter prompt. ok is false for an empty set.
func AmountRange(transactions []*models.Transaction) (min, max decimal.Decimal, ok bool) {
	if len(transactions) == 0 {
		return decimal.Zero, decimal.Zero, false
	}

	min = transactions[0].Amount()
	max = min
	for _, txn := range transactions[1:] {
		amount := txn.Amount()
		if amount.LessThan(min) {
			min = amount
		}
		if amount.GreaterThan(max) {
			max = amount
		}
	}
	return min, max, true
}
