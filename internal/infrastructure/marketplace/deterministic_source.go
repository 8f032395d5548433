package marketplace

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/shopspring/decimal"
)

// DeterministicDataSource is an in-process MarketplaceDataSource for
// development and demo environments without marketplace credentials.
// Whether a SKU matches is a pure function of (channel, SKU), so repeated
// auto-link passes see a stable marketplace.
type DeterministicDataSource struct {
	// matchRate is the fraction of SKUs that produce a match (0.0-1.0)
	matchRate float64
}

// NewDeterministicDataSource creates a source with the given match rate
func NewDeterministicDataSource(matchRate float64) *DeterministicDataSource {
	if matchRate < 0 {
		matchRate = 0
	}
	if matchRate > 1 {
		matchRate = 1
	}
	return &DeterministicDataSource{matchRate: matchRate}
}

func hashKey(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func (s *DeterministicDataSource) hits(key uint64) bool {
	return float64(key%10000) < s.matchRate*10000
}

// price derives a stable listing price between 5.00 and 104.99
func price(key uint64) decimal.Decimal {
	cents := int64(key % 10000)
	return decimal.NewFromInt(500 + cents).Div(decimal.NewFromInt(100))
}

// MatchProduct reports a synthetic listing for SKUs that hash into the
// configured match rate
func (s *DeterministicDataSource) MatchProduct(_ context.Context, sku string, account *linking.MarketplaceAccount) (*linking.ProductMatch, error) {
	key := hashKey("product", account.Channel.String(), sku)
	if !s.hits(key) {
		return nil, nil
	}
	externalID := fmt.Sprintf("%s-P%d", account.Channel, key%1000000)
	return &linking.ProductMatch{
		ExternalID: externalID,
		SKU:        sku,
		Title:      "Listing " + sku,
		Price:      price(key),
		Currency:   "USD",
		Raw:        fmt.Sprintf(`{"external_id":%q,"sku":%q}`, externalID, sku),
	}, nil
}

// MatchVariant reports a synthetic variant under the matched product. The
// variant key includes the parent so a variant only ever matches inside the
// product that listed it.
func (s *DeterministicDataSource) MatchVariant(_ context.Context, sku string, product *linking.ProductMatch, account *linking.MarketplaceAccount) (*linking.VariantMatch, error) {
	key := hashKey("variant", account.Channel.String(), product.ExternalID, sku)
	if !s.hits(key) {
		return nil, nil
	}
	externalVariantID := fmt.Sprintf("%s-V%d", product.ExternalID, key%1000000)
	return &linking.VariantMatch{
		ExternalProductID: product.ExternalID,
		ExternalVariantID: externalVariantID,
		SKU:               sku,
		Title:             "Variant " + sku,
		Price:             price(key),
		Raw:               fmt.Sprintf(`{"external_variant_id":%q,"sku":%q}`, externalVariantID, sku),
	}, nil
}

// Ensure DeterministicDataSource implements MarketplaceDataSource
var _ linking.MarketplaceDataSource = (*DeterministicDataSource)(nil)
