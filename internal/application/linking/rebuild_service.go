package linking

import (
	"context"
	"fmt"

	"github.com/channelbridge/backend/internal/domain/catalog"
	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RebuildService re-derives parent/child wiring for every link under one
// account after drift. It is a best-effort batch: it repoints and counts,
// never deletes, and per-link failures do not abort the pass.
type RebuildService struct {
	links   linking.LinkRepository
	catalog catalog.Reader
	logger  *zap.Logger
}

// NewRebuildService creates a new RebuildService
func NewRebuildService(links linking.LinkRepository, catalogReader catalog.Reader, logger *zap.Logger) *RebuildService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RebuildService{links: links, catalog: catalogReader, logger: logger}
}

// RebuildForAccount repoints every variant-level link under the account at
// the product-level link of its owning product. Variant links whose product
// has no product-level link yet are counted as orphaned; only a sync with
// marketplace data (or manual linking) can resolve those.
func (s *RebuildService) RebuildForAccount(ctx context.Context, accountID uuid.UUID) (*linking.RebuildReport, error) {
	if accountID == uuid.Nil {
		return nil, linking.ErrLinkInvalidAccount
	}

	productLinks, err := s.links.FindAll(ctx, linking.ByAccount(accountID).WithLevel(linking.LinkLevelProduct))
	if err != nil {
		return nil, err
	}
	variantLinks, err := s.links.FindAll(ctx, linking.ByAccount(accountID).WithLevel(linking.LinkLevelVariant))
	if err != nil {
		return nil, err
	}

	// Product ID -> product-level link ID under this account.
	parentByProduct := make(map[uuid.UUID]uuid.UUID, len(productLinks))
	for i := range productLinks {
		parentByProduct[productLinks[i].Linkable.ID] = productLinks[i].ID
	}

	report := &linking.RebuildReport{ProductLinksProcessed: len(productLinks)}

	for i := range variantLinks {
		link := &variantLinks[i]
		if err := s.rewireVariantLink(ctx, link, parentByProduct, report); err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("link %s: %v", link.ID, err))
		}
	}

	s.logger.Info("hierarchy rebuild completed",
		zap.String("account_id", accountID.String()),
		zap.Int("product_links_processed", report.ProductLinksProcessed),
		zap.Int("variant_links_fixed", report.VariantLinksFixed),
		zap.Int("orphaned_links_found", report.OrphanedLinksFound),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

func (s *RebuildService) rewireVariantLink(
	ctx context.Context,
	link *linking.MarketplaceLink,
	parentByProduct map[uuid.UUID]uuid.UUID,
	report *linking.RebuildReport,
) error {
	product, err := s.catalog.GetOwningProduct(ctx, link.Linkable.ID)
	if err != nil {
		return fmt.Errorf("resolve owning product: %w", err)
	}

	wantParent, haveProductLink := parentByProduct[product.ID]
	if !haveProductLink {
		if link.ParentLinkID == nil {
			// No marketplace data to create the parent from.
			report.OrphanedLinksFound++
		}
		return nil
	}

	if link.ParentLinkID != nil && *link.ParentLinkID == wantParent {
		return nil
	}

	if err := link.AttachParent(wantParent); err != nil {
		return err
	}
	if err := s.links.Save(ctx, link); err != nil {
		return fmt.Errorf("save repointed link: %w", err)
	}
	report.VariantLinksFixed++
	return nil
}
