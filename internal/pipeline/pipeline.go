// Package pipeline runs the full analysis: parse, validate and filter,
// aggregate, enrich against the product catalog, persist the enriched
// dataset and write the text report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang-sales-analytics-service/internal/analytics"
	"golang-sales-analytics-service/internal/catalog"
	"golang-sales-analytics-service/internal/enrichment"
	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/internal/parsers"
	"golang-sales-analytics-service/internal/reporter"
	"golang-sales-analytics-service/internal/validator"
	"golang-sales-analytics-service/pkg/errors"
	"golang-sales-analytics-service/pkg/logger"
)

// topProductCount is the number of products shown in the report
const topProductCount = 5

// stageCount is the number of tracked pipeline stages
const stageCount = 7

// Request describes one analysis run
type Request struct {
	InputFile    string
	EnrichedFile string
	ReportFile   string

	// Parser configures the sales parser; nil uses defaults
	Parser *parsers.SalesParserConfig

	// Filter holds the optional region/amount filters, nil for none
	Filter *validator.Options

	// PromptFilter, when set, is called with the parsed records before
	// validation and supplies the filter options instead of Filter. The
	// interactive mode uses this to show available regions and the
	// amount range before asking.
	PromptFilter func([]*models.Transaction) (*validator.Options, error)

	// Catalog configures the product catalog fetch; nil uses defaults.
	// SkipCatalog suppresses the fetch entirely and every record comes
	// back unmatched.
	Catalog     *catalog.ClientConfig
	SkipCatalog bool
}

// Validate checks the request for obvious mistakes before the run starts
func (r *Request) Validate() error {
	if r.InputFile == "" {
		return fmt.Errorf("input file is required")
	}
	if r.EnrichedFile == "" {
		return fmt.Errorf("enriched output file is required")
	}
	if r.ReportFile == "" {
		return fmt.Errorf("report output file is required")
	}
	if err := r.Filter.Validate(); err != nil {
		return err
	}
	return nil
}

// Result summarizes a completed run
type Result struct {
	ParseStats    *parsers.ParseStats
	FilterSummary *validator.Summary
	Snapshot      *analytics.Snapshot
	Enrichment    *enrichment.Stats
	EnrichedFile  string
	ReportFile    string
	Duration      time.Duration
}

// Service orchestrates the analysis stages
type Service struct {
	logger logger.Logger
}

// NewService creates a new pipeline Service
func NewService() *Service {
	return &Service{
		logger: logger.GetGlobalLogger().WithComponent("pipeline"),
	}
}

// Run executes the pipeline for the given request. File and
// configuration errors abort the run; data-quality problems and catalog
// failures degrade gracefully so a parsed input always reaches the
// report stage.
func (s *Service) Run(ctx context.Context, request *Request) (*Result, error) {
	start := time.Now()

	if err := request.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"pipeline_request",
			request,
			err,
		).WithSuggestion("Check the input path, output paths and filter values")
	}

	steps := logger.NewStepTracker(stageCount, s.logger)
	result, err := s.run(ctx, request, steps)
	if err != nil {
		steps.CompleteWithError(err)
		return nil, err
	}

	steps.Complete()
	result.Duration = time.Since(start)
	return result, nil
}

func (s *Service) run(ctx context.Context, request *Request, steps *logger.StepTracker) (*Result, error) {
	result := &Result{}

	// Stage 1: parse.
	steps.Begin("Parsing sales data")
	parser, err := parsers.NewSalesParser(request.Parser)
	if err != nil {
		return nil, err
	}
	transactions, parseStats, err := parser.ParseFile(request.InputFile)
	if err != nil {
		return nil, err
	}
	result.ParseStats = parseStats
	if len(transactions) == 0 {
		return nil, errors.FileError(
			errors.CodeFileEmpty,
			request.InputFile,
			fmt.Errorf("no data records found"),
		).WithSuggestion("Check that the file contains data rows below the header")
	}
	steps.EndWithFields(logger.Fields{"records": len(transactions)})

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	filter := request.Filter
	if request.PromptFilter != nil {
		filter, err = request.PromptFilter(transactions)
		if err != nil {
			return nil, err
		}
	}

	// Stage 2: validate and filter.
	steps.Begin("Validating and filtering")
	valid, filterSummary, err := validator.NewValidator().Apply(transactions, filter)
	if err != nil {
		return nil, err
	}
	result.FilterSummary = filterSummary
	if len(valid) == 0 {
		return nil, errors.ValidationError(
			errors.CodeNoValidData,
			"validated_set",
			filterSummary.String(),
			fmt.Errorf("no records survived validation and filtering"),
		).WithSuggestion("Relax the region or amount filters, or check the input data quality")
	}
	steps.EndWithFields(logger.Fields{"valid_records": len(valid)})

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Stage 3: analytics.
	steps.Begin("Computing analytics")
	snapshot := analytics.NewEngine().Analyze(valid, topProductCount)
	result.Snapshot = snapshot
	steps.EndWithFields(logger.Fields{"total_revenue": snapshot.TotalRevenue.String()})

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Stage 4: catalog fetch. Failures degrade to an empty mapping.
	steps.Begin("Fetching product catalog")
	var products []models.CatalogProduct
	if request.SkipCatalog {
		s.logger.Info("Catalog fetch disabled, all records will be unmatched")
	} else {
		client, err := catalog.NewClient(request.Catalog)
		if err != nil {
			return nil, err
		}
		products = client.FetchProducts(ctx)
	}
	mapping := catalog.BuildMapping(products)
	steps.EndWithFields(logger.Fields{"catalog_products": len(mapping)})

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Stage 5: enrichment.
	steps.Begin("Enriching transactions")
	enriched, enrichStats := enrichment.NewEnricher().Enrich(valid, mapping)
	result.Enrichment = enrichStats
	steps.EndWithFields(logger.Fields{"matched": enrichStats.Matched})

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	writer := reporter.NewWriter()

	// Stage 6: persist the enriched dataset.
	steps.Begin("Writing enriched dataset")
	if err := writer.WriteEnriched(request.EnrichedFile, enriched); err != nil {
		return nil, err
	}
	result.EnrichedFile = request.EnrichedFile
	steps.EndWithFields(nil)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Stage 7: write the report.
	steps.Begin("Writing analysis report")
	reportData := &reporter.ReportData{
		GeneratedAt:   time.Now(),
		Snapshot:      snapshot,
		LowPerformers: analytics.LowRevenueProducts(valid, reporter.LowPerformerRevenueThreshold),
		Enrichment:    enrichStats,
	}
	if err := writer.WriteReport(request.ReportFile, reportData); err != nil {
		return nil, err
	}
	result.ReportFile = request.ReportFile
	steps.EndWithFields(nil)

	return result, nil
}

// checkCancelled translates a cancelled context into the error taxonomy
func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errors.InternalError(errors.CodeCancelled, "pipeline", ctx.Err()).
			WithSuggestion("The run was interrupted before completion")
	default:
		return nil
	}
}
