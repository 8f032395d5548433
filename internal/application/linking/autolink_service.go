package linking

import (
	"context"

	"github.com/channelbridge/backend/internal/domain/catalog"
	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AutoLinkService seeds first-time links for catalog products that have no
// marketplace link yet, by probing the marketplace data source with
// generated SKU spellings. Each product's hierarchy sync is atomic, but the
// batch as a whole is best-effort: a failure partway through does not roll
// back earlier successes.
type AutoLinkService struct {
	links    linking.LinkRepository
	catalog  catalog.Reader
	accounts linking.AccountReader
	source   linking.MarketplaceDataSource
	sync     *HierarchySyncService
	logger   *zap.Logger
}

// NewAutoLinkService creates a new AutoLinkService
func NewAutoLinkService(
	links linking.LinkRepository,
	catalogReader catalog.Reader,
	accounts linking.AccountReader,
	source linking.MarketplaceDataSource,
	sync *HierarchySyncService,
	logger *zap.Logger,
) *AutoLinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoLinkService{
		links:    links,
		catalog:  catalogReader,
		accounts: accounts,
		source:   source,
		sync:     sync,
		logger:   logger,
	}
}

// AutoLinkHierarchical probes every (unlinked product x active account) pair
// for a product-level match on the product's parent SKU, then probes each
// unlinked variant SKU under the match. Matched hierarchies are created
// through the hierarchy synchronizer. Returns the number of links created.
//
// A product match with zero variant matches still creates the product-level
// link; a later sync or probe can complete the hierarchy.
func (s *AutoLinkService) AutoLinkHierarchical(ctx context.Context) (int, error) {
	products, accounts, linkedProducts, linkedVariants, err := s.loadScope(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range products {
		product := &products[i]
		if _, linked := linkedProducts[product.ID]; linked {
			continue
		}
		if !product.HasParentSKU() {
			continue
		}

		for j := range accounts {
			n, err := s.autoLinkProduct(ctx, product, &accounts[j], linkedVariants)
			if err != nil {
				s.logger.Warn("auto-link failed for product",
					zap.String("product_id", product.ID.String()),
					zap.String("account_id", accounts[j].ID.String()),
					zap.Error(err))
				continue
			}
			created += n
		}
	}

	s.logger.Info("hierarchical auto-link completed", zap.Int("links_created", created))
	return created, nil
}

// AutoLinkBySKU is the flat, product-level-only matcher: it probes unlinked
// products against every active account and creates a single product-level
// link per match, with no variant probing.
func (s *AutoLinkService) AutoLinkBySKU(ctx context.Context) (int, error) {
	products, accounts, linkedProducts, _, err := s.loadScope(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range products {
		product := &products[i]
		if _, linked := linkedProducts[product.ID]; linked {
			continue
		}
		if !product.HasParentSKU() {
			continue
		}

		for j := range accounts {
			account := &accounts[j]
			match, err := s.probeProduct(ctx, product.ParentSKU, account)
			if err != nil {
				s.logger.Warn("product probe failed",
					zap.String("product_id", product.ID.String()),
					zap.String("channel", account.Channel.String()),
					zap.Error(err))
				continue
			}
			if match == nil {
				continue
			}

			err = s.links.InTransaction(ctx, func(repo linking.LinkRepository) error {
				link, err := linking.NewProductLink(product.ID, account.ID, product.ParentSKU)
				if err != nil {
					return err
				}
				link.RefreshExternal(match.ExternalID, "", match.SKU, match.Raw)
				link.MarkLinked()
				return repo.Save(ctx, link)
			})
			if err != nil {
				s.logger.Warn("product link creation failed",
					zap.String("product_id", product.ID.String()),
					zap.Error(err))
				continue
			}
			created++
		}
	}

	s.logger.Info("flat auto-link completed", zap.Int("links_created", created))
	return created, nil
}

func (s *AutoLinkService) autoLinkProduct(
	ctx context.Context,
	product *catalog.Product,
	account *linking.MarketplaceAccount,
	linkedVariants map[uuid.UUID]struct{},
) (int, error) {
	match, err := s.probeProduct(ctx, product.ParentSKU, account)
	if err != nil {
		return 0, err
	}
	if match == nil {
		return 0, nil
	}

	productData := ProductSyncData{
		ExternalProductID: match.ExternalID,
		ExternalSKU:       match.SKU,
		Title:             match.Title,
		Payload:           match.Raw,
	}

	var variantData []VariantSyncData
	for i := range product.Variants {
		variant := &product.Variants[i]
		if !variant.HasSKU() {
			continue
		}
		if _, linked := linkedVariants[variant.ID]; linked {
			continue
		}

		vm, err := s.probeVariant(ctx, variant.SKU, match, account)
		if err != nil {
			return 0, err
		}
		if vm == nil {
			continue
		}
		variantData = append(variantData, VariantSyncData{
			InternalSKU:       variant.SKU,
			ExternalVariantID: vm.ExternalVariantID,
			ExternalSKU:       vm.SKU,
			Payload:           vm.Raw,
		})
	}

	result, err := s.sync.SyncProductHierarchy(ctx, product.ID, account.ID, productData, variantData)
	if err != nil {
		return 0, err
	}
	return 1 + len(result.VariantLinks), nil
}

// probeProduct tries every generated spelling of the SKU until one matches
func (s *AutoLinkService) probeProduct(
	ctx context.Context,
	sku string,
	account *linking.MarketplaceAccount,
) (*linking.ProductMatch, error) {
	for _, variation := range linking.SKUVariations(sku) {
		match, err := s.source.MatchProduct(ctx, variation, account)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return match, nil
		}
	}
	return nil, nil
}

func (s *AutoLinkService) probeVariant(
	ctx context.Context,
	sku string,
	product *linking.ProductMatch,
	account *linking.MarketplaceAccount,
) (*linking.VariantMatch, error) {
	for _, variation := range linking.SKUVariations(sku) {
		match, err := s.source.MatchVariant(ctx, variation, product, account)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return match, nil
		}
	}
	return nil, nil
}

// loadScope gathers the product list, active accounts, and the sets of
// already-linked product and variant IDs in one place.
func (s *AutoLinkService) loadScope(ctx context.Context) (
	[]catalog.Product,
	[]linking.MarketplaceAccount,
	map[uuid.UUID]struct{},
	map[uuid.UUID]struct{},
	error,
) {
	products, err := s.catalog.FindAllProducts(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	accounts, err := s.accounts.FindActive(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	productIDs, err := s.links.FindProductIDsWithLinks(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	variantIDs, err := s.links.FindVariantIDsWithLinks(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	linkedProducts := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		linkedProducts[id] = struct{}{}
	}
	linkedVariants := make(map[uuid.UUID]struct{}, len(variantIDs))
	for _, id := range variantIDs {
		linkedVariants[id] = struct{}{}
	}
	return products, accounts, linkedProducts, linkedVariants, nil
}
