package linking

import (
	"strings"

	"github.com/channelbridge/backend/internal/domain/linking"
)

// ---------------------------------------------------------------------------
// Sync inputs
// ---------------------------------------------------------------------------

// ProductSyncData carries marketplace-side identity for a product-level link
type ProductSyncData struct {
	ExternalProductID string `json:"external_product_id"`
	ExternalSKU       string `json:"external_sku"`
	Title             string `json:"title,omitempty"`
	// Payload is the raw marketplace record, stored on the link for audit
	Payload string `json:"payload,omitempty"`
}

// Validate checks the minimum identity a product sync needs
func (d ProductSyncData) Validate() error {
	if strings.TrimSpace(d.ExternalProductID) == "" {
		return linking.ErrSyncMissingExternalID
	}
	if strings.TrimSpace(d.ExternalSKU) == "" {
		return linking.ErrSyncMissingSKU
	}
	return nil
}

// VariantSyncData carries marketplace-side identity for one variant entry.
// InternalSKU resolves the catalog variant under the synced product.
type VariantSyncData struct {
	InternalSKU       string `json:"internal_sku"`
	ExternalVariantID string `json:"external_variant_id,omitempty"`
	ExternalSKU       string `json:"external_sku,omitempty"`
	Payload           string `json:"payload,omitempty"`
}

// ---------------------------------------------------------------------------
// Sync result
// ---------------------------------------------------------------------------

// SyncResult is the outcome of one atomic hierarchy sync. VariantLinks holds
// the links touched by this pass; links orphaned by it are only counted.
type SyncResult struct {
	ProductLink   *linking.MarketplaceLink  `json:"product_link"`
	VariantLinks  []linking.MarketplaceLink `json:"variant_links"`
	SkippedSKUs   []string                  `json:"skipped_skus,omitempty"`
	OrphanedLinks int                       `json:"orphaned_links"`
}
