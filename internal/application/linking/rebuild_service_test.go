package linking

import (
	"context"
	"testing"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildService_RepointsDriftedVariants(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S", "HD-100-M")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	parent := mustProductLink(t, store, product.ID, account.ID, "HD-100")

	wrong := uuid.New()
	drifted := mustVariantLink(t, store, product.Variants[0].ID, account.ID, "HD-100-S", &wrong)
	detached := mustVariantLink(t, store, product.Variants[1].ID, account.ID, "HD-100-M", nil)

	svc := NewRebuildService(store, newFakeCatalog(product), nil)

	report, err := svc.RebuildForAccount(ctx, account.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, report.ProductLinksProcessed)
	assert.Equal(t, 2, report.VariantLinksFixed)
	assert.Zero(t, report.OrphanedLinksFound)
	assert.Empty(t, report.Errors)

	for _, id := range []uuid.UUID{drifted.ID, detached.ID} {
		link, err := store.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, link.ParentLinkID)
		assert.Equal(t, parent.ID, *link.ParentLinkID)
	}
}

func TestRebuildService_LeavesCorrectLinksAlone(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	parent := mustProductLink(t, store, product.ID, account.ID, "HD-100")
	mustVariantLink(t, store, product.Variants[0].ID, account.ID, "HD-100-S", &parent.ID)

	svc := NewRebuildService(store, newFakeCatalog(product), nil)

	report, err := svc.RebuildForAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, report.VariantLinksFixed)
	assert.Zero(t, report.OrphanedLinksFound)
}

func TestRebuildService_CountsOrphansWithoutProductLink(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	orphan := mustVariantLink(t, store, product.Variants[0].ID, account.ID, "HD-100-S", nil)

	svc := NewRebuildService(store, newFakeCatalog(product), nil)

	report, err := svc.RebuildForAccount(ctx, account.ID)
	require.NoError(t, err)

	assert.Zero(t, report.VariantLinksFixed)
	assert.Equal(t, 1, report.OrphanedLinksFound)

	// Counting must not mutate: the rebuild has no marketplace data to
	// conjure a parent from.
	link, err := store.FindByID(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Nil(t, link.ParentLinkID)
}

func TestRebuildService_RecordsPerLinkErrors(t *testing.T) {
	ctx := context.Background()

	known := buildProduct("Hoodie", "HD-100", "HD-100-S")
	account := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)

	store := newFakeLinkStore()
	parent := mustProductLink(t, store, known.ID, account.ID, "HD-100")
	mustVariantLink(t, store, known.Variants[0].ID, account.ID, "HD-100-S", &parent.ID)
	// Link to a variant the catalog has no record of.
	mustVariantLink(t, store, uuid.New(), account.ID, "GHOST-1", nil)

	svc := NewRebuildService(store, newFakeCatalog(known), nil)

	report, err := svc.RebuildForAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "resolve owning product")
}

func TestRebuildService_ScopedToAccount(t *testing.T) {
	ctx := context.Background()

	product := buildProduct("Hoodie", "HD-100", "HD-100-S")
	shopify := buildAccount("Main Shopify", linking.ChannelCodeShopify, true)
	amazon := buildAccount("Amazon DE", linking.ChannelCodeAmazon, true)

	store := newFakeLinkStore()
	mustProductLink(t, store, product.ID, shopify.ID, "HD-100")
	mustVariantLink(t, store, product.Variants[0].ID, shopify.ID, "HD-100-S", nil)
	// Same catalog entities linked on the other account stay untouched.
	other := mustVariantLink(t, store, product.Variants[0].ID, amazon.ID, "HD-100-S", nil)

	svc := NewRebuildService(store, newFakeCatalog(product), nil)

	report, err := svc.RebuildForAccount(ctx, shopify.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.VariantLinksFixed)

	untouched, err := store.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.ParentLinkID)
}

func TestRebuildService_RejectsNilAccount(t *testing.T) {
	svc := NewRebuildService(newFakeLinkStore(), newFakeCatalog(), nil)
	_, err := svc.RebuildForAccount(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, linking.ErrLinkInvalidAccount)
}
