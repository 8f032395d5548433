package marketplace

import (
	"context"
	"fmt"
	"testing"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicDataSource_StableAcrossCalls(t *testing.T) {
	ctx := context.Background()
	source := NewDeterministicDataSource(0.6)
	account := testAccount()

	first, err := source.MatchProduct(ctx, "HD-100", account)
	require.NoError(t, err)
	second, err := source.MatchProduct(ctx, "HD-100", account)
	require.NoError(t, err)

	if first == nil {
		assert.Nil(t, second)
		return
	}
	require.NotNil(t, second)
	assert.Equal(t, first.ExternalID, second.ExternalID)
	assert.True(t, first.Price.Equal(second.Price))
}

func TestDeterministicDataSource_MatchRateBounds(t *testing.T) {
	ctx := context.Background()
	account := testAccount()

	never := NewDeterministicDataSource(0)
	always := NewDeterministicDataSource(1)

	for i := 0; i < 50; i++ {
		sku := fmt.Sprintf("SKU-%03d", i)

		match, err := never.MatchProduct(ctx, sku, account)
		require.NoError(t, err)
		assert.Nil(t, match)

		match, err = always.MatchProduct(ctx, sku, account)
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.NotEmpty(t, match.ExternalID)
		assert.True(t, match.Price.IsPositive())
	}
}

func TestDeterministicDataSource_VariantScopedToProduct(t *testing.T) {
	ctx := context.Background()
	source := NewDeterministicDataSource(1)
	account := testAccount()

	product, err := source.MatchProduct(ctx, "HD-100", account)
	require.NoError(t, err)
	require.NotNil(t, product)

	variant, err := source.MatchVariant(ctx, "HD-100-S", product, account)
	require.NoError(t, err)
	require.NotNil(t, variant)
	assert.Equal(t, product.ExternalID, variant.ExternalProductID)

	// A different parent yields a different variant identity.
	other := &linking.ProductMatch{ExternalID: "other-parent"}
	variantB, err := source.MatchVariant(ctx, "HD-100-S", other, account)
	require.NoError(t, err)
	require.NotNil(t, variantB)
	assert.NotEqual(t, variant.ExternalVariantID, variantB.ExternalVariantID)
}
