// Package analytics computes aggregate views over a validated set of
// transactions. Every function is pure and recomputes from the input
// slice on each call; nothing is cached between runs.
package analytics

import (
	"sort"

	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// RegionStats aggregates sales for a single region
type RegionStats struct {
	Region           string          `json:"region"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int             `json:"transaction_count"`
	Percentage       decimal.Decimal `json:"percentage"`
}

// ProductStats aggregates sales for a single product name
type ProductStats struct {
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// CustomerStats aggregates purchases for a single customer
type CustomerStats struct {
	CustomerID    string          `json:"customer_id"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	PurchaseCount int             `json:"purchase_count"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	Products      []string        `json:"products"`
}

// DailyStats aggregates sales for a single date
type DailyStats struct {
	Date             string          `json:"date"`
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
	UniqueCustomers  int             `json:"unique_customers"`
}

// round2 applies the canonical monetary rounding: two decimal places,
// halves rounded away from zero.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// TotalRevenue returns the sum of Quantity × UnitPrice over the set
func TotalRevenue(transactions []*models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range transactions {
		total = total.Add(txn.Amount())
	}
	return total
}

// RegionBreakdown groups sales by region, ordered by total sales
// descending. Regions with equal sales keep their first-encounter order.
// Percentage is of the grand total, or zero when the grand total is zero.
func RegionBreakdown(transactions []*models.Transaction) []RegionStats {
	totals := make(map[string]*RegionStats)
	var order []string

	for _, txn := range transactions {
		stats, seen := totals[txn.Region]
		if !seen {
			stats = &RegionStats{Region: txn.Region}
			totals[txn.Region] = stats
			order = append(order, txn.Region)
		}
		stats.TotalSales = stats.TotalSales.Add(txn.Amount())
		stats.TransactionCount++
	}

	grandTotal := TotalRevenue(transactions)

	results := make([]RegionStats, 0, len(order))
	for _, region := range order {
		stats := totals[region]
		stats.TotalSales = round2(stats.TotalSales)
		if grandTotal.IsPositive() {
			stats.Percentage = round2(stats.TotalSales.Div(grandTotal).Mul(decimal.NewFromInt(100)))
		}
		results = append(results, *stats)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalSales.GreaterThan(results[j].TotalSales)
	})
	return results
}

// productTotals groups by product name in first-encounter order
func productTotals(transactions []*models.Transaction) []ProductStats {
	totals := make(map[string]*ProductStats)
	var order []string

	for _, txn := range transactions {
		stats, seen := totals[txn.ProductName]
		if !seen {
			stats = &ProductStats{ProductName: txn.ProductName}
			totals[txn.ProductName] = stats
			order = append(order, txn.ProductName)
		}
		stats.TotalQuantity += txn.Quantity
		stats.TotalRevenue = stats.TotalRevenue.Add(txn.Amount())
	}

	results := make([]ProductStats, 0, len(order))
	for _, name := range order {
		stats := totals[name]
		stats.TotalRevenue = round2(stats.TotalRevenue)
		results = append(results, *stats)
	}
	return results
}

// TopProducts returns the n best-selling products by total quantity,
// descending. Products with equal quantity keep first-encounter order.
func TopProducts(transactions []*models.Transaction, n int) []ProductStats {
	results := productTotals(transactions)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalQuantity > results[j].TotalQuantity
	})

	if n >= 0 && n < len(results) {
		results = results[:n]
	}
	return results
}

// TopProductsByRevenue returns the n products with the highest total
// revenue, descending. Ties keep first-encounter order.
func TopProductsByRevenue(transactions []*models.Transaction, n int) []ProductStats {
	results := productTotals(transactions)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalRevenue.GreaterThan(results[j].TotalRevenue)
	})

	if n >= 0 && n < len(results) {
		results = results[:n]
	}
	return results
}

// LowPerformingProducts returns products whose total quantity is below
// threshold, ordered by quantity ascending.
func LowPerformingProducts(transactions []*models.Transaction, threshold int) []ProductStats {
	all := productTotals(transactions)

	var results []ProductStats
	for _, stats := range all {
		if stats.TotalQuantity < threshold {
			results = append(results, stats)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalQuantity < results[j].TotalQuantity
	})
	return results
}

// LowRevenueProducts returns products whose total revenue is below
// threshold, ordered by revenue ascending.
func LowRevenueProducts(transactions []*models.Transaction, threshold decimal.Decimal) []ProductStats {
	all := productTotals(transactions)

	var results []ProductStats
	for _, stats := range all {
		if stats.TotalRevenue.LessThan(threshold) {
			results = append(results, stats)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalRevenue.LessThan(results[j].TotalRevenue)
	})
	return results
}

// CustomerAnalysis groups purchases by customer, ordered by total spend
// descending. Products lists each distinct product name the customer
// bought, sorted.
func CustomerAnalysis(transactions []*models.Transaction) []CustomerStats {
	totals := make(map[string]*CustomerStats)
	products := make(map[string]map[string]bool)
	var order []string

	for _, txn := range transactions {
		stats, seen := totals[txn.CustomerID]
		if !seen {
			stats = &CustomerStats{CustomerID: txn.CustomerID}
			totals[txn.CustomerID] = stats
			products[txn.CustomerID] = make(map[string]bool)
			order = append(order, txn.CustomerID)
		}
		stats.TotalSpent = stats.TotalSpent.Add(txn.Amount())
		stats.PurchaseCount++
		products[txn.CustomerID][txn.ProductName] = true
	}

	results := make([]CustomerStats, 0, len(order))
	for _, customer := range order {
		stats := totals[customer]
		stats.TotalSpent = round2(stats.TotalSpent)
		if stats.PurchaseCount > 0 {
			stats.AvgOrderValue = round2(stats.TotalSpent.Div(decimal.NewFromInt(int64(stats.PurchaseCount))))
		}
		for name := range products[customer] {
			stats.Products = append(stats.Products, name)
		}
		sort.Strings(stats.Products)
		results = append(results, *stats)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalSpent.GreaterThan(results[j].TotalSpent)
	})
	return results
}

// DailyTrend groups sales by date, ascending. Dates are compared as
// strings; the ISO layout in the input makes that ordering chronological.
func DailyTrend(transactions []*models.Transaction) []DailyStats {
	totals := make(map[string]*DailyStats)
	customers := make(map[string]map[string]bool)

	for _, txn := range transactions {
		stats, seen := totals[txn.Date]
		if !seen {
			stats = &DailyStats{Date: txn.Date}
			totals[txn.Date] = stats
			customers[txn.Date] = make(map[string]bool)
		}
		stats.Revenue = stats.Revenue.Add(txn.Amount())
		stats.TransactionCount++
		customers[txn.Date][txn.CustomerID] = true
	}

	results := make([]DailyStats, 0, len(totals))
	for date, stats := range totals {
		stats.Revenue = round2(stats.Revenue)
		stats.UniqueCustomers = len(customers[date])
		results = append(results, *stats)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Date < results[j].Date
	})
	return results
}

// PeakDay returns the date with the highest revenue. Ties go to the
// earliest date. ok is false for an empty set.
func PeakDay(transactions []*models.Transaction) (DailyStats, bool) {
	daily := DailyTrend(transactions)
	if len(daily) == 0 {
		return DailyStats{}, false
	}

	// daily is date-ascending, so strict GreaterThan keeps the earliest
	// date on ties.
	peak := daily[0]
	for _, day := range daily[1:] {
		if day.Revenue.GreaterThan(peak.Revenue) {
			peak = day
		}
	}
	return peak, true
}

// Snapshot holds every aggregate view computed in one pass for the
// report writer
type Snapshot struct {
	TransactionCount  int
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	FirstDate         string
	LastDate          string
	Regions           []RegionStats
	TopProducts       []ProductStats
	Customers         []CustomerStats
	Daily             []DailyStats
	Peak              *DailyStats
}

// Engine computes analytics snapshots
type Engine struct {
	logger logger.Logger
}

// NewEngine creates a new Engine
func NewEngine() *Engine {
	return &Engine{
		logger: logger.GetGlobalLogger().WithComponent("analytics"),
	}
}

// Analyze computes the full snapshot for the given transactions. The
// top-products view is ranked by revenue and capped at topN entries.
func (e *Engine) Analyze(transactions []*models.Transaction, topN int) *Snapshot {
	snapshot := &Snapshot{
		TransactionCount: len(transactions),
		TotalRevenue:     round2(TotalRevenue(transactions)),
		Regions:          RegionBreakdown(transactions),
		TopProducts:      TopProductsByRevenue(transactions, topN),
		Customers:        CustomerAnalysis(transactions),
		Daily:            DailyTrend(transactions),
	}

	if len(transactions) > 0 {
		snapshot.AverageOrderValue = round2(snapshot.TotalRevenue.Div(decimal.NewFromInt(int64(len(transactions)))))
	}
	if peak, ok := PeakDay(transactions); ok {
		snapshot.Peak = &peak
	}
	if len(snapshot.Daily) > 0 {
		snapshot.FirstDate = snapshot.Daily[0].Date
		snapshot.LastDate = snapshot.Daily[len(snapshot.Daily)-1].Date
	}

	e.logger.WithFields(logger.Fields{
		"transactions":  snapshot.TransactionCount,
		"total_revenue": snapshot.TotalRevenue.String(),
		"regions":       len(snapshot.Regions),
		"days":          len(snapshot.Daily),
	}).Info("Analytics computed")

	return snapshot
}
