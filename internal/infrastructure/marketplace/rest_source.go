package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/shopspring/decimal"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// RESTConfig holds connection settings for the marketplace lookup API
type RESTConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate checks the configuration is usable
func (c *RESTConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("marketplace: base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("marketplace: invalid base URL: %w", err)
	}
	if c.Timeout <= 0 {
		return errors.New("marketplace: timeout must be positive")
	}
	return nil
}

// RESTDataSource implements MarketplaceDataSource against an HTTP lookup API
// that fronts the individual marketplace integrations. A 404 from the API is
// a clean no-match, not an error.
type RESTDataSource struct {
	config     *RESTConfig
	httpClient *http.Client
}

// NewRESTDataSource creates a new RESTDataSource with the given configuration
func NewRESTDataSource(config *RESTConfig) (*RESTDataSource, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RESTDataSource{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// productLookupResponse is the wire format of a product lookup hit
type productLookupResponse struct {
	ExternalID string          `json:"external_id"`
	SKU        string          `json:"sku"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
}

// variantLookupResponse is the wire format of a variant lookup hit
type variantLookupResponse struct {
	ExternalProductID string          `json:"external_product_id"`
	ExternalVariantID string          `json:"external_variant_id"`
	SKU               string          `json:"sku"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
}

// MatchProduct looks a SKU up as a product listing on the account's channel
func (s *RESTDataSource) MatchProduct(ctx context.Context, sku string, account *linking.MarketplaceAccount) (*linking.ProductMatch, error) {
	body, found, err := s.doLookup(ctx, "/products/lookup", url.Values{
		"sku":     {sku},
		"channel": {account.Channel.String()},
		"account": {account.ID.String()},
	})
	if err != nil || !found {
		return nil, err
	}

	var resp productLookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse product response: %w", err)
	}

	return &linking.ProductMatch{
		ExternalID: resp.ExternalID,
		SKU:        resp.SKU,
		Title:      resp.Title,
		Price:      resp.Price,
		Currency:   resp.Currency,
		Raw:        string(body),
	}, nil
}

// MatchVariant looks a SKU up as a variant under an already matched product
func (s *RESTDataSource) MatchVariant(ctx context.Context, sku string, product *linking.ProductMatch, account *linking.MarketplaceAccount) (*linking.VariantMatch, error) {
	body, found, err := s.doLookup(ctx, "/variants/lookup", url.Values{
		"sku":        {sku},
		"product_id": {product.ExternalID},
		"channel":    {account.Channel.String()},
		"account":    {account.ID.String()},
	})
	if err != nil || !found {
		return nil, err
	}

	var resp variantLookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse variant response: %w", err)
	}

	return &linking.VariantMatch{
		ExternalProductID: resp.ExternalProductID,
		ExternalVariantID: resp.ExternalVariantID,
		SKU:               resp.SKU,
		Title:             resp.Title,
		Price:             resp.Price,
		Raw:               string(body),
	}, nil
}

// doLookup performs a GET against the lookup API. The second return value
// reports whether the lookup produced a hit.
func (s *RESTDataSource) doLookup(ctx context.Context, path string, query url.Values) ([]byte, bool, error) {
	endpoint := s.config.BaseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("marketplace: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("marketplace: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode >= 400 {
		return nil, false, fmt.Errorf("marketplace: lookup failed with HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, false, fmt.Errorf("marketplace: failed to read response: %w", err)
	}
	return body, true, nil
}

// Ensure RESTDataSource implements MarketplaceDataSource
var _ linking.MarketplaceDataSource = (*RESTDataSource)(nil)
