package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang-sales-analytics-service/cmd/salesanalyzer/config"
	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/internal/pipeline"
	"golang-sales-analytics-service/internal/validator"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the analyze command
var (
	inputFile      string
	enrichedFile   string
	reportFile     string
	filterRegion   string
	minAmount      string
	maxAmount      string
	interactive    bool
	catalogURL     string
	catalogTimeout time.Duration
	skipCatalog    bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a sales transaction file",
	Long: `Analyze parses a pipe-delimited sales transaction file, validates and
optionally filters the records, computes revenue and trend analytics,
enriches each transaction with product catalog metadata, and writes an
enriched dataset plus a formatted text report.

Examples:
  # Basic analysis with default output paths
  salesanalyzer analyze --input-file sales_data.txt

  # Region and amount filters
  salesanalyzer analyze --input-file sales_data.txt \
    --region North --min-amount 100 --max-amount 5000

  # Prompt for filters after showing the available regions and range
  salesanalyzer analyze --input-file sales_data.txt --interactive

  # Custom catalog endpoint, or no catalog at all
  salesanalyzer analyze --input-file sales_data.txt --catalog-url http://localhost:8080
  salesanalyzer analyze --input-file sales_data.txt --skip-catalog`,

	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Required flags
	analyzeCmd.Flags().StringVarP(&inputFile, "input-file", "i", "", "path to the pipe-delimited sales data file (required)")

	// Output flags
	analyzeCmd.Flags().StringVarP(&enrichedFile, "enriched-file", "e", "output/enriched_sales_data.txt", "path for the enriched dataset output")
	analyzeCmd.Flags().StringVarP(&reportFile, "report-file", "r", "output/sales_report.txt", "path for the text report output")

	// Filter flags
	analyzeCmd.Flags().StringVar(&filterRegion, "region", "", "keep only transactions from this region (case-insensitive)")
	analyzeCmd.Flags().StringVar(&minAmount, "min-amount", "", "keep only transactions with amount >= this value")
	analyzeCmd.Flags().StringVar(&maxAmount, "max-amount", "", "keep only transactions with amount <= this value")
	analyzeCmd.Flags().BoolVar(&interactive, "interactive", false, "prompt for filters after parsing")

	// Catalog flags
	analyzeCmd.Flags().StringVar(&catalogURL, "catalog-url", "", "product catalog base URL (default: public catalog)")
	analyzeCmd.Flags().DurationVar(&catalogTimeout, "catalog-timeout", 0, "catalog request timeout (default 10s)")
	analyzeCmd.Flags().BoolVar(&skipCatalog, "skip-catalog", false, "skip the catalog fetch, leaving all records unmatched")

	analyzeCmd.MarkFlagRequired("input-file")

	// Bind flags to viper
	viper.BindPFlag("input-file", analyzeCmd.Flags().Lookup("input-file"))
	viper.BindPFlag("enriched-file", analyzeCmd.Flags().Lookup("enriched-file"))
	viper.BindPFlag("report-file", analyzeCmd.Flags().Lookup("report-file"))
	viper.BindPFlag("region", analyzeCmd.Flags().Lookup("region"))
	viper.BindPFlag("min-amount", analyzeCmd.Flags().Lookup("min-amount"))
	viper.BindPFlag("max-amount", analyzeCmd.Flags().Lookup("max-amount"))
	viper.BindPFlag("interactive", analyzeCmd.Flags().Lookup("interactive"))
	viper.BindPFlag("catalog-url", analyzeCmd.Flags().Lookup("catalog-url"))
	viper.BindPFlag("catalog-timeout", analyzeCmd.Flags().Lookup("catalog-timeout"))
	viper.BindPFlag("skip-catalog", analyzeCmd.Flags().Lookup("skip-catalog"))
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	inputFile = viper.GetString("input-file")
	enrichedFile = viper.GetString("enriched-file")
	reportFile = viper.GetString("report-file")
	filterRegion = viper.GetString("region")
	minAmount = viper.GetString("min-amount")
	maxAmount = viper.GetString("max-amount")
	interactive = viper.GetBool("interactive")
	catalogURL = viper.GetString("catalog-url")
	catalogTimeout = viper.GetDuration("catalog-timeout")
	skipCatalog = viper.GetBool("skip-catalog")

	if inputFile == "" {
		return fmt.Errorf("input-file is required")
	}

	if interactive && (filterRegion != "" || minAmount != "" || maxAmount != "") {
		return fmt.Errorf("--interactive cannot be combined with --region, --min-amount or --max-amount")
	}

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// SIGINT/SIGTERM cancel the run between pipeline stages.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting analysis...\n")
		fmt.Fprintf(os.Stderr, "Input file: %s\n", inputFile)
		fmt.Fprintf(os.Stderr, "Enriched output: %s\n", enrichedFile)
		fmt.Fprintf(os.Stderr, "Report output: %s\n", reportFile)
	}

	request := &pipeline.Request{
		InputFile:    inputFile,
		EnrichedFile: enrichedFile,
		ReportFile:   reportFile,
		Parser:       config.CreateParserConfig(),
		Catalog:      config.CreateCatalogConfig(catalogURL, catalogTimeout),
		SkipCatalog:  skipCatalog,
	}

	if interactive {
		request.PromptFilter = promptForFilters
	} else {
		opts, warnings := config.CreateFilterOptions(filterRegion, minAmount, maxAmount)
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
		request.Filter = opts
	}

	handler := NewCLIErrorHandler()

	result, err := pipeline.NewService().Run(ctx, request)
	if err != nil {
		exitCode := handler.HandleError(err)
		os.Exit(exitCode)
	}

	printRunSummary(result)
	return nil
}

// promptForFilters asks for optional filters on stdin, showing the
// regions and amount range present in the parsed data first. Blank
// input skips a filter; non-numeric amount input is warned about and
// ignored.
func promptForFilters(transactions []*models.Transaction) (*validator.Options, error) {
	reader := bufio.NewReader(os.Stdin)

	regions := validator.AvailableRegions(transactions)
	fmt.Printf("Available regions: %s\n", strings.Join(regions, ", "))
	if min, max, ok := validator.AmountRange(transactions); ok {
		fmt.Printf("Transaction amounts range from %s to %s\n", min.StringFixed(2), max.StringFixed(2))
	}

	region := promptLine(reader, "Filter by region (blank for all): ")
	minInput := promptLine(reader, "Minimum amount (blank for none): ")
	maxInput := promptLine(reader, "Maximum amount (blank for none): ")

	opts, warnings := config.CreateFilterOptions(region, minInput, maxInput)
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	return opts, nil
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func printRunSummary(result *pipeline.Result) {
	fmt.Println()
	fmt.Println("Analysis complete.")
	if result.ParseStats != nil {
		fmt.Printf("  Parsed:   %d records (%d lines dropped)\n",
			result.ParseStats.RecordsParsed, result.ParseStats.LinesDropped)
	}
	if result.FilterSummary != nil {
		fmt.Printf("  Kept:     %d records (%d invalid, %d filtered)\n",
			result.FilterSummary.FinalCount,
			result.FilterSummary.InvalidRecords,
			result.FilterSummary.FilteredByRegion+result.FilterSummary.FilteredByAmount)
	}
	if result.Snapshot != nil {
		fmt.Printf("  Revenue:  $%s across %d transactions\n",
			result.Snapshot.TotalRevenue.StringFixed(2), result.Snapshot.TransactionCount)
	}
	if result.Enrichment != nil {
		fmt.Printf("  Enriched: %d of %d matched (%.1f%%)\n",
			result.Enrichment.Matched, result.Enrichment.Total, result.Enrichment.MatchRate())
	}
	fmt.Printf("  Outputs:  %s, %s\n", result.EnrichedFile, result.ReportFile)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))
}
