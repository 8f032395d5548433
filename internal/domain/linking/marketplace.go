package linking

import (
	"context"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Marketplace Data Source
// ---------------------------------------------------------------------------

// ProductMatch is a marketplace-side product record matched by SKU
type ProductMatch struct {
	ExternalID string          `json:"external_id"`
	SKU        string          `json:"sku"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	// Raw is the marketplace payload as received, stored on the link
	// for audit/debugging
	Raw string `json:"raw,omitempty"`
}

// VariantMatch is a marketplace-side variant record matched by SKU under a
// previously matched product
type VariantMatch struct {
	ExternalProductID string          `json:"external_product_id"`
	ExternalVariantID string          `json:"external_variant_id"`
	SKU               string          `json:"sku"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	Raw               string          `json:"raw,omitempty"`
}

// MarketplaceDataSource supplies external identifiers for catalog entities
// on one marketplace account. Implementations may call a live marketplace
// API or answer deterministically for environments without one; the
// hierarchy logic never depends on which.
//
// A nil match with a nil error means "no match"; errors are reserved for
// transport or account failures.
type MarketplaceDataSource interface {
	// MatchProduct looks up a product-level record by SKU
	MatchProduct(ctx context.Context, sku string, account *MarketplaceAccount) (*ProductMatch, error)

	// MatchVariant looks up a variant-level record by SKU under a product match
	MatchVariant(ctx context.Context, sku string, product *ProductMatch, account *MarketplaceAccount) (*VariantMatch, error)
}
