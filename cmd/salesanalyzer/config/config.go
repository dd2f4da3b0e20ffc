// Package config builds component configurations from CLI flag values.
package config

import (
	"fmt"
	"time"

	"golang-sales-analytics-service/internal/catalog"
	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/internal/parsers"
	"golang-sales-analytics-service/internal/validator"
)

// CreateParserConfig creates the sales parser configuration
func CreateParserConfig() *parsers.SalesParserConfig {
	return parsers.DefaultSalesParserConfig()
}

// CreateCatalogConfig creates the catalog client configuration from flag
// values, keeping defaults for anything left unset.
func CreateCatalogConfig(baseURL string, timeout time.Duration) *catalog.ClientConfig {
	config := catalog.DefaultClientConfig()
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout > 0 {
		config.Timeout = timeout
	}
	return config
}

// CreateFilterOptions turns the raw flag strings into validator options.
// Amount bounds that fail to parse as numbers are skipped with a warning
// rather than aborting; the returned warnings describe every skipped
// bound.
func CreateFilterOptions(region, minAmount, maxAmount string) (*validator.Options, []string) {
	opts := &validator.Options{Region: region}
	var warnings []string

	if minAmount != "" {
		if value, err := models.ParseDecimalFromString(minAmount); err == nil {
			opts.MinAmount = &value
		} else {
			warnings = append(warnings, fmt.Sprintf("ignoring invalid minimum amount %q", minAmount))
		}
	}

	if maxAmount != "" {
		if value, err := models.ParseDecimalFromString(maxAmount); err == nil {
			opts.MaxAmount = &value
		} else {
			warnings = append(warnings, fmt.Sprintf("ignoring invalid maximum amount %q", maxAmount))
		}
	}

	if !opts.HasFilters() {
		return nil, warnings
	}
	return opts, warnings
}
