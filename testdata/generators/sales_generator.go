// Command sales_generator produces pipe-delimited sales data files for
// testing. The clean scenario emits only well-formed valid records; the
// messy scenario mixes in malformed lines, invalid records and Latin-1
// style product names so parser and validator behavior can be exercised
// on realistic data.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SalesGenerator generates sales transaction data files
type SalesGenerator struct {
	Count     int
	StartDate time.Time
	EndDate   time.Time
	Seed      int64
}

var (
	regions = []string{"North", "South", "East", "West"}

	// Product ids overlap the public catalog's 1..100 id space so a
	// portion of generated records enrich successfully.
	products = []struct {
		ID   string
		Name string
	}{
		{"P5", "Desk Organizer"},
		{"P12", "Bluetooth Speaker"},
		{"P33", "Coffee Grinder"},
		{"P47", "Notebook Set"},
		{"P61", "Table Lamp"},
		{"P88", "Water Bottle"},
		{"P109", "Wireless Mouse"},
		{"P250", "Standing Desk"},
		{"P999", "Gift Card"},
	}
)

func main() {
	var (
		output    = flag.String("output", "generated_sales_data.txt", "Output file path")
		count     = flag.Int("count", 500, "Number of data lines to generate")
		startDate = flag.String("start-date", "2024-01-01", "Start date (YYYY-MM-DD)")
		endDate   = flag.String("end-date", "2024-03-31", "End date (YYYY-MM-DD)")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible generation")
		scenario  = flag.String("scenario", "clean", "Generation scenario: clean, messy")
	)
	flag.Parse()

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	generator := &SalesGenerator{
		Count:     *count,
		StartDate: start,
		EndDate:   end,
		Seed:      *seed,
	}

	var lines []string
	switch *scenario {
	case "messy":
		lines = generator.GenerateMessy()
	default:
		lines = generator.GenerateClean()
	}

	if err := generator.WriteFile(*output, lines); err != nil {
		log.Fatalf("Failed to write file: %v", err)
	}

	fmt.Printf("Generated %d data lines in %s\n", len(lines), *output)
	fmt.Printf("Date range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("Seed used: %d\n", *seed)
}

// GenerateClean creates well-formed valid records across the date range
func (sg *SalesGenerator) GenerateClean() []string {
	rng := rand.New(rand.NewSource(sg.Seed))
	lines := make([]string, 0, sg.Count)

	for i := 0; i < sg.Count; i++ {
		lines = append(lines, sg.validLine(rng, i+1))
	}
	return lines
}

// GenerateMessy creates records with roughly 15% malformed or invalid
// lines mixed among the valid ones
func (sg *SalesGenerator) GenerateMessy() []string {
	rng := rand.New(rand.NewSource(sg.Seed))
	lines := make([]string, 0, sg.Count)

	for i := 0; i < sg.Count; i++ {
		roll := rng.Float64()
		switch {
		case roll < 0.04:
			// Wrong field count.
			lines = append(lines, fmt.Sprintf("T%04d|%s|P12|Broken Line|3", i+1, sg.randomDate(rng)))
		case roll < 0.07:
			// Non-numeric quantity.
			lines = append(lines, fmt.Sprintf("T%04d|%s|P33|Coffee Grinder|three|25.00|C%03d|North",
				i+1, sg.randomDate(rng), rng.Intn(200)+1))
		case roll < 0.10:
			// Zero quantity: parses but fails validation.
			lines = append(lines, fmt.Sprintf("T%04d|%s|P47|Notebook Set|0|8.50|C%03d|South",
				i+1, sg.randomDate(rng), rng.Intn(200)+1))
		case roll < 0.12:
			// Missing region: parses but fails validation.
			lines = append(lines, fmt.Sprintf("T%04d|%s|P61|Table Lamp|1|42.00|C%03d|",
				i+1, sg.randomDate(rng), rng.Intn(200)+1))
		case roll < 0.15:
			// Thousands separators and currency symbol in numerics.
			lines = append(lines, fmt.Sprintf("T%04d|%s|P250|Standing Desk|1,000|$1,299.99|C%03d|West",
				i+1, sg.randomDate(rng), rng.Intn(200)+1))
		default:
			lines = append(lines, sg.validLine(rng, i+1))
		}
	}
	return lines
}

func (sg *SalesGenerator) validLine(rng *rand.Rand, seq int) string {
	product := products[rng.Intn(len(products))]
	quantity := rng.Intn(10) + 1
	price := decimal.NewFromFloat(rng.Float64()*495 + 5).Round(2)

	return fmt.Sprintf("T%04d|%s|%s|%s|%d|%s|C%03d|%s",
		seq,
		sg.randomDate(rng),
		product.ID,
		product.Name,
		quantity,
		price.String(),
		rng.Intn(200)+1,
		regions[rng.Intn(len(regions))])
}

func (sg *SalesGenerator) randomDate(rng *rand.Rand) string {
	days := int(sg.EndDate.Sub(sg.StartDate).Hours() / 24)
	if days <= 0 {
		return sg.StartDate.Format("2006-01-02")
	}
	return sg.StartDate.AddDate(0, 0, rng.Intn(days+1)).Format("2006-01-02")
}

// WriteFile writes the header row followed by the generated lines
func (sg *SalesGenerator) WriteFile(path string, lines []string) error {
	var b strings.Builder
	b.WriteString("TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
