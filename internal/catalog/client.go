// Package catalog fetches the external product catalog and builds the
// id-keyed lookup used for enrichment. The catalog is best-effort: any
// fetch failure degrades to an empty catalog and the run continues.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/errors"
	"golang-sales-analytics-service/pkg/logger"
)

const (
	// DefaultBaseURL is the public catalog endpoint
	DefaultBaseURL = "https://dummyjson.com"

	// DefaultTimeout bounds the single catalog request
	DefaultTimeout = 10 * time.Second

	// DefaultLimit is the number of products requested per fetch
	DefaultLimit = 100
)

// ClientConfig holds the catalog client settings
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Limit   int
}

// DefaultClientConfig returns the standard catalog client settings
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Limit:   DefaultLimit,
	}
}

// Validate checks the client configuration
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	return nil
}

// productsResponse is the wire shape of the catalog endpoint
type productsResponse struct {
	Products []models.CatalogProduct `json:"products"`
}

// Client fetches products from the catalog HTTP API
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a catalog client with the given configuration
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		config = DefaultClientConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"catalog_client_config",
			config,
			err,
		).WithSuggestion("Check the catalog URL, timeout and limit settings")
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.GetGlobalLogger().WithComponent("catalog_client"),
	}, nil
}

// FetchProducts retrieves the product catalog. It never returns an
// error: transport failures, non-2xx statuses and malformed bodies are
// logged and collapse to an empty product list so the enrichment stage
// can proceed with every record unmatched.
func (c *Client) FetchProducts(ctx context.Context) []models.CatalogProduct {
	endpoint := fmt.Sprintf("%s/products?limit=%d", c.config.BaseURL, c.config.Limit)

	products, err := c.fetch(ctx, endpoint)
	if err != nil {
		c.logger.WithError(err).WithField("endpoint", endpoint).
			Warn("Catalog fetch failed, continuing with empty catalog")
		return nil
	}

	c.logger.WithFields(logger.Fields{
		"endpoint": endpoint,
		"products": len(products),
	}).Info("Fetched product catalog")

	return products
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]models.CatalogProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NetworkError(errors.CodeConnectionFailed, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError(errors.CodeTimeout, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NetworkError(
			errors.CodeBadStatus,
			endpoint,
			fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NetworkError(errors.CodeConnectionFailed, endpoint, err)
	}

	var parsed productsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.NetworkError(errors.CodeMalformedResponse, endpoint, err)
	}

	return parsed.Products, nil
}

// BuildMapping indexes products by numeric id. Later duplicates of an
// id overwrite earlier ones.
func BuildMapping(products []models.CatalogProduct) map[int]models.CatalogProduct {
	mapping := make(map[int]models.CatalogProduct, len(products))
	for _, product := range products {
		mapping[product.ID] = product
	}
	return mapping
}
