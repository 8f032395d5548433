package linking

import (
	"context"
	"errors"

	"github.com/channelbridge/backend/internal/domain/catalog"
	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HierarchySyncService builds or refreshes the full product+variant link set
// for one (product, account) pair as a single atomic unit. Re-running a sync
// with identical inputs is a no-op on the resulting link set.
type HierarchySyncService struct {
	links    linking.LinkRepository
	catalog  catalog.Reader
	accounts linking.AccountReader
	logger   *zap.Logger
}

// NewHierarchySyncService creates a new HierarchySyncService
func NewHierarchySyncService(
	links linking.LinkRepository,
	catalogReader catalog.Reader,
	accounts linking.AccountReader,
	logger *zap.Logger,
) *HierarchySyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HierarchySyncService{
		links:    links,
		catalog:  catalogReader,
		accounts: accounts,
		logger:   logger,
	}
}

// SyncProductHierarchy upserts the product-level link and one variant-level
// link per resolvable variant entry, forcing every variant link's parent to
// the product-level link. Existing children the marketplace no longer
// reports are transitioned to unlinked. All writes commit or roll back
// together; no partial hierarchy is ever visible.
func (s *HierarchySyncService) SyncProductHierarchy(
	ctx context.Context,
	productID uuid.UUID,
	accountID uuid.UUID,
	productData ProductSyncData,
	variantData []VariantSyncData,
) (*SyncResult, error) {
	if err := productData.Validate(); err != nil {
		return nil, err
	}

	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, linking.ErrAccountInactive
	}
	if err := account.ValidateChannel(); err != nil {
		return nil, err
	}

	var result *SyncResult
	err = s.links.InTransaction(ctx, func(repo linking.LinkRepository) error {
		var txErr error
		result, txErr = s.syncInTx(ctx, repo, product, account, productData, variantData)
		return txErr
	})
	if err != nil {
		s.logger.Error("hierarchy sync failed",
			zap.String("product_id", productID.String()),
			zap.String("account_id", accountID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("hierarchy sync completed",
		zap.String("product_id", productID.String()),
		zap.String("account_id", accountID.String()),
		zap.Int("variant_links", len(result.VariantLinks)),
		zap.Int("orphaned_links", result.OrphanedLinks),
		zap.Strings("skipped_skus", result.SkippedSKUs))
	return result, nil
}

// syncInTx runs the upsert sequence against a transaction-bound repository.
// The product-level link is always written before any variant-level link
// that references it.
func (s *HierarchySyncService) syncInTx(
	ctx context.Context,
	repo linking.LinkRepository,
	product *catalog.Product,
	account *linking.MarketplaceAccount,
	productData ProductSyncData,
	variantData []VariantSyncData,
) (*SyncResult, error) {
	productLink, err := s.upsertProductLink(ctx, repo, product, account, productData)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{ProductLink: productLink}
	touched := make(map[uuid.UUID]struct{}, len(variantData))

	for _, entry := range variantData {
		variant, err := s.catalog.FindVariantBySKU(ctx, product.ID, entry.InternalSKU)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// The marketplace referenced a SKU the catalog does not know.
				result.SkippedSKUs = append(result.SkippedSKUs, entry.InternalSKU)
				continue
			}
			return nil, err
		}

		variantLink, err := s.upsertVariantLink(ctx, repo, variant, account, productLink, entry)
		if err != nil {
			return nil, err
		}
		touched[variant.ID] = struct{}{}
		result.VariantLinks = append(result.VariantLinks, *variantLink)
	}

	orphaned, err := s.unlinkMissingChildren(ctx, repo, productLink, touched)
	if err != nil {
		return nil, err
	}
	result.OrphanedLinks = orphaned

	return result, nil
}

func (s *HierarchySyncService) upsertProductLink(
	ctx context.Context,
	repo linking.LinkRepository,
	product *catalog.Product,
	account *linking.MarketplaceAccount,
	data ProductSyncData,
) (*linking.MarketplaceLink, error) {
	link, err := repo.FindByLinkable(ctx, linking.ProductLinkable(product.ID), account.ID)
	if errors.Is(err, linking.ErrLinkNotFound) {
		link, err = linking.NewProductLink(product.ID, account.ID, product.ParentSKU)
	}
	if err != nil {
		return nil, err
	}

	link.RefreshExternal(data.ExternalProductID, "", data.ExternalSKU, data.Payload)
	link.MarkLinked()

	if err := repo.Save(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *HierarchySyncService) upsertVariantLink(
	ctx context.Context,
	repo linking.LinkRepository,
	variant *catalog.Variant,
	account *linking.MarketplaceAccount,
	parent *linking.MarketplaceLink,
	data VariantSyncData,
) (*linking.MarketplaceLink, error) {
	link, err := repo.FindByLinkable(ctx, linking.VariantLinkable(variant.ID), account.ID)
	if errors.Is(err, linking.ErrLinkNotFound) {
		link, err = linking.NewVariantLink(variant.ID, account.ID, variant.SKU)
	}
	if err != nil {
		return nil, err
	}

	// Force the parent on every pass so drifted or missing parents self-heal.
	if err := link.AttachParentLink(parent); err != nil {
		return nil, err
	}
	link.RefreshExternal(parent.ExternalProductID, data.ExternalVariantID, data.ExternalSKU, data.Payload)
	link.MarkLinked()

	if err := repo.Save(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// unlinkMissingChildren transitions existing children of the product link
// that were not part of this sync pass to unlinked.
func (s *HierarchySyncService) unlinkMissingChildren(
	ctx context.Context,
	repo linking.LinkRepository,
	productLink *linking.MarketplaceLink,
	touched map[uuid.UUID]struct{},
) (int, error) {
	children, err := repo.FindByParent(ctx, productLink.ID)
	if err != nil {
		return 0, err
	}

	orphaned := 0
	for i := range children {
		child := &children[i]
		if _, ok := touched[child.Linkable.ID]; ok {
			continue
		}
		if child.Status == linking.LinkStatusUnlinked {
			continue
		}
		child.MarkUnlinked()
		if err := repo.Save(ctx, child); err != nil {
			return 0, err
		}
		orphaned++
	}
	return orphaned, nil
}
