package linking

import (
	"context"
	"testing"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchySyncService_SyncProductHierarchy(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S", "HD-100-M")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	svc := NewHierarchySyncService(store, newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

	productData := ProductSyncData{
		ExternalProductID: "shopify-900",
		ExternalSKU:       "HD-100",
		Title:             "Hoodie",
	}
	variantData := []VariantSyncData{
		{InternalSKU: "HD-100-S", ExternalVariantID: "v-1", ExternalSKU: "HD-100-S"},
		{InternalSKU: "HD-100-M", ExternalVariantID: "v-2", ExternalSKU: "HD-100-M"},
	}

	result, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, productData, variantData)
	require.NoError(t, err)
	require.NotNil(t, result.ProductLink)

	assert.Equal(t, linking.LinkStatusLinked, result.ProductLink.Status)
	assert.Equal(t, "shopify-900", result.ProductLink.ExternalProductID)
	assert.NotNil(t, result.ProductLink.LinkedAt)
	assert.Len(t, result.VariantLinks, 2)
	assert.Empty(t, result.SkippedSKUs)
	assert.Zero(t, result.OrphanedLinks)

	for _, vl := range result.VariantLinks {
		require.NotNil(t, vl.ParentLinkID)
		assert.Equal(t, result.ProductLink.ID, *vl.ParentLinkID)
		assert.Equal(t, linking.LinkStatusLinked, vl.Status)
		assert.Equal(t, "shopify-900", vl.ExternalProductID)
	}

	assert.Len(t, store.all(), 3)
}

func TestHierarchySyncService_SyncIsIdempotent(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S", "HD-100-M")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	svc := NewHierarchySyncService(store, newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

	productData := ProductSyncData{ExternalProductID: "shopify-900", ExternalSKU: "HD-100"}
	variantData := []VariantSyncData{
		{InternalSKU: "HD-100-S", ExternalVariantID: "v-1"},
		{InternalSKU: "HD-100-M", ExternalVariantID: "v-2"},
	}

	first, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, productData, variantData)
	require.NoError(t, err)
	second, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, productData, variantData)
	require.NoError(t, err)

	// Same links updated in place, never duplicated.
	assert.Equal(t, first.ProductLink.ID, second.ProductLink.ID)
	assert.Len(t, store.all(), 3)

	firstIDs := map[uuid.UUID]struct{}{}
	for _, vl := range first.VariantLinks {
		firstIDs[vl.ID] = struct{}{}
	}
	for _, vl := range second.VariantLinks {
		assert.Contains(t, firstIDs, vl.ID)
	}
}

func TestHierarchySyncService_SkipsUnknownSKUs(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	svc := NewHierarchySyncService(store, newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

	result, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID,
		ProductSyncData{ExternalProductID: "shopify-900", ExternalSKU: "HD-100"},
		[]VariantSyncData{
			{InternalSKU: "HD-100-S", ExternalVariantID: "v-1"},
			{InternalSKU: "NOPE-999", ExternalVariantID: "v-9"},
		})
	require.NoError(t, err)

	assert.Len(t, result.VariantLinks, 1)
	assert.Equal(t, []string{"NOPE-999"}, result.SkippedSKUs)
	assert.Len(t, store.all(), 2)
}

func TestHierarchySyncService_UnlinksRemovedVariants(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S", "HD-100-M")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	svc := NewHierarchySyncService(store, newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

	productData := ProductSyncData{ExternalProductID: "shopify-900", ExternalSKU: "HD-100"}
	both := []VariantSyncData{
		{InternalSKU: "HD-100-S", ExternalVariantID: "v-1"},
		{InternalSKU: "HD-100-M", ExternalVariantID: "v-2"},
	}
	onlySmall := both[:1]

	_, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, productData, both)
	require.NoError(t, err)

	result, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, productData, onlySmall)
	require.NoError(t, err)
	assert.Equal(t, 1, result.OrphanedLinks)

	mediumID := product.Variants[1].ID
	medium := store.byLinkable(linking.VariantLinkable(mediumID), account.ID)
	require.NotNil(t, medium)
	assert.Equal(t, linking.LinkStatusUnlinked, medium.Status)
	assert.Nil(t, medium.LinkedAt)

	// The link survives unlinking; a later pass that reports the variant
	// again re-links it in place.
	result, err = svc.SyncProductHierarchy(ctx, product.ID, account.ID, productData, both)
	require.NoError(t, err)
	assert.Zero(t, result.OrphanedLinks)

	medium = store.byLinkable(linking.VariantLinkable(mediumID), account.ID)
	require.NotNil(t, medium)
	assert.Equal(t, linking.LinkStatusLinked, medium.Status)
	assert.Len(t, store.all(), 3)
}

func TestHierarchySyncService_HealsDriftedParent(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	svc := NewHierarchySyncService(store, newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

	productData := ProductSyncData{ExternalProductID: "shopify-900", ExternalSKU: "HD-100"}
	variantData := []VariantSyncData{{InternalSKU: "HD-100-S", ExternalVariantID: "v-1"}}

	first, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, productData, variantData)
	require.NoError(t, err)

	// Point the variant link at a bogus parent behind the service's back.
	drifted := store.byLinkable(linking.VariantLinkable(product.Variants[0].ID), account.ID)
	require.NoError(t, drifted.AttachParent(uuid.New()))
	require.NoError(t, store.Save(ctx, drifted))

	_, err = svc.SyncProductHierarchy(ctx, product.ID, account.ID, productData, variantData)
	require.NoError(t, err)

	healed := store.byLinkable(linking.VariantLinkable(product.Variants[0].ID), account.ID)
	require.NotNil(t, healed.ParentLinkID)
	assert.Equal(t, first.ProductLink.ID, *healed.ParentLinkID)
}

func TestHierarchySyncService_RollsBackOnStoreFailure(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	store.saveHook = func(link *linking.MarketplaceLink) error {
		if link.IsVariantLevel() {
			return shared.ErrStoreFailure
		}
		return nil
	}
	svc := NewHierarchySyncService(store, newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

	_, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID,
		ProductSyncData{ExternalProductID: "shopify-900", ExternalSKU: "HD-100"},
		[]VariantSyncData{{InternalSKU: "HD-100-S", ExternalVariantID: "v-1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrStoreFailure)

	// The product link written before the failing variant save must not survive.
	assert.Empty(t, store.all())
}

func TestHierarchySyncService_ValidatesSyncData(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)
	svc := NewHierarchySyncService(newFakeLinkStore(), newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

	_, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID,
		ProductSyncData{ExternalSKU: "HD-100"}, nil)
	assert.ErrorIs(t, err, linking.ErrSyncMissingExternalID)

	_, err = svc.SyncProductHierarchy(ctx, product.ID, account.ID,
		ProductSyncData{ExternalProductID: "shopify-900"}, nil)
	assert.ErrorIs(t, err, linking.ErrSyncMissingSKU)
}

func TestHierarchySyncService_UnknownProductOrAccount(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)
	svc := NewHierarchySyncService(newFakeLinkStore(), newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

	data := ProductSyncData{ExternalProductID: "shopify-900", ExternalSKU: "HD-100"}

	_, err := svc.SyncProductHierarchy(ctx, uuid.New(), account.ID, data, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.SyncProductHierarchy(ctx, product.ID, uuid.New(), data, nil)
	assert.ErrorIs(t, err, linking.ErrAccountNotFound)
}

func TestHierarchySyncService_RejectsUnusableAccount(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100")
	data := ProductSyncData{ExternalProductID: "shopify-900", ExternalSKU: "HD-100"}

	t.Run("inactive account", func(t *testing.T) {
		account := buildAccount("Paused Shopify", linking.ChannelCodeShopify, false)
		svc := NewHierarchySyncService(newFakeLinkStore(), newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

		_, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, data, nil)
		assert.ErrorIs(t, err, linking.ErrAccountInactive)
	})

	t.Run("account without a channel", func(t *testing.T) {
		account := buildAccount("Broken", "", true)
		svc := NewHierarchySyncService(newFakeLinkStore(), newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

		_, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, data, nil)
		assert.ErrorIs(t, err, linking.ErrAccountMissingChannel)
	})

	t.Run("account with an unknown channel", func(t *testing.T) {
		account := buildAccount("Broken", linking.ChannelCode("MYSPACE"), true)
		svc := NewHierarchySyncService(newFakeLinkStore(), newFakeCatalog(product), &fakeAccounts{accounts: []linking.MarketplaceAccount{account}}, nil)

		_, err := svc.SyncProductHierarchy(ctx, product.ID, account.ID, data, nil)
		assert.ErrorIs(t, err, linking.ErrInvalidChannelCode)
	})
}
