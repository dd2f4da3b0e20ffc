// Package enrichment joins validated transactions against the product
// catalog mapping. The join is a pure left join: every input record
// produces exactly one output record in the same position, matched or not.
package enrichment

import (
	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/logger"
)

// Stats summarizes an enrichment pass
type Stats struct {
	Total     int
	Matched   int
	Unmatched int

	// UnmatchedIDs holds distinct unmatched product ids in
	// first-occurrence order, capped at the sample limit.
	UnmatchedIDs []string
}

// MatchRate returns the matched fraction as a percentage, 0 for an
// empty input.
func (s *Stats) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total) * 100
}

// unmatchedSampleLimit caps the distinct unmatched ids retained for the
// report.
const unmatchedSampleLimit = 5

// Enricher joins transactions against a catalog mapping
type Enricher struct {
	logger logger.Logger
}

// NewEnricher creates a new Enricher
func NewEnricher() *Enricher {
	return &Enricher{
		logger: logger.GetGlobalLogger().WithComponent("enrichment"),
	}
}

// Enrich joins each transaction against the mapping by the numeric part
// of its ProductID. Records whose id has no digits, or whose id is
// absent from the mapping, come back unmatched with sentinel values.
// The input slice and its records are never modified; output order
// matches input order one to one.
func (e *Enricher) Enrich(transactions []*models.Transaction, mapping map[int]models.CatalogProduct) ([]*models.EnrichedTransaction, *Stats) {
	stats := &Stats{Total: len(transactions)}
	seenUnmatched := make(map[string]bool)

	enriched := make([]*models.EnrichedTransaction, 0, len(transactions))
	for _, txn := range transactions {
		record := e.enrichOne(txn, mapping)
		enriched = append(enriched, record)

		if record.APIMatch {
			stats.Matched++
			continue
		}

		stats.Unmatched++
		if !seenUnmatched[txn.ProductID] {
			seenUnmatched[txn.ProductID] = true
			if len(stats.UnmatchedIDs) < unmatchedSampleLimit {
				stats.UnmatchedIDs = append(stats.UnmatchedIDs, txn.ProductID)
			}
		}
	}

	e.logger.WithFields(logger.Fields{
		"total":      stats.Total,
		"matched":    stats.Matched,
		"unmatched":  stats.Unmatched,
		"match_rate": stats.MatchRate(),
	}).Info("Enrichment completed")

	return enriched, stats
}

func (e *Enricher) enrichOne(txn *models.Transaction, mapping map[int]models.CatalogProduct) *models.EnrichedTransaction {
	numericID, ok := models.ExtractNumericProductID(txn.ProductID)
	if !ok {
		return models.NewUnmatchedTransaction(txn)
	}

	product, found := mapping[numericID]
	if !found {
		return models.NewUnmatchedTransaction(txn)
	}

	return &models.EnrichedTransaction{
		Transaction: *txn,
		APICategory: product.Category,
		APIBrand:    product.Brand,
		APIRating:   product.Rating,
		APIMatch:    true,
	}
}
