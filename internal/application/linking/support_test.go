package linking

import (
	"context"
	"strings"
	"sync"

	"github.com/channelbridge/backend/internal/domain/catalog"
	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// In-memory link store
//
// A stateful fake rather than an expectation mock: the sync and repair
// properties under test (uniqueness, idempotence, rollback) are assertions
// about the resulting link set, not about call sequences.
// ---------------------------------------------------------------------------

type fakeLinkStore struct {
	mu    sync.Mutex
	links map[uuid.UUID]*linking.MarketplaceLink
	// saveHook lets a test inject a failure for specific links
	saveHook func(*linking.MarketplaceLink) error
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: make(map[uuid.UUID]*linking.MarketplaceLink)}
}

func cloneLink(l *linking.MarketplaceLink) *linking.MarketplaceLink {
	c := *l
	if l.ParentLinkID != nil {
		pid := *l.ParentLinkID
		c.ParentLinkID = &pid
	}
	if l.LinkedAt != nil {
		ts := *l.LinkedAt
		c.LinkedAt = &ts
	}
	return &c
}

func (f *fakeLinkStore) snapshot() map[uuid.UUID]*linking.MarketplaceLink {
	out := make(map[uuid.UUID]*linking.MarketplaceLink, len(f.links))
	for id, l := range f.links {
		out[id] = cloneLink(l)
	}
	return out
}

func (f *fakeLinkStore) FindByID(_ context.Context, id uuid.UUID) (*linking.MarketplaceLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, ok := f.links[id]
	if !ok {
		return nil, linking.ErrLinkNotFound
	}
	return cloneLink(link), nil
}

func (f *fakeLinkStore) FindByLinkable(_ context.Context, linkable linking.Linkable, accountID uuid.UUID) (*linking.MarketplaceLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, link := range f.links {
		if link.Linkable == linkable && link.AccountID == accountID {
			return cloneLink(link), nil
		}
	}
	return nil, linking.ErrLinkNotFound
}

func (f *fakeLinkStore) FindByParent(_ context.Context, parentLinkID uuid.UUID) ([]linking.MarketplaceLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []linking.MarketplaceLink
	for _, link := range f.links {
		if link.ParentLinkID != nil && *link.ParentLinkID == parentLinkID {
			out = append(out, *cloneLink(link))
		}
	}
	return out, nil
}

func matchesFilter(link *linking.MarketplaceLink, filter linking.LinkFilter) bool {
	if filter.AccountID != nil && link.AccountID != *filter.AccountID {
		return false
	}
	if filter.Level != nil && link.Level != *filter.Level {
		return false
	}
	if filter.Status != nil && link.Status != *filter.Status {
		return false
	}
	if filter.HasParent != nil && (link.ParentLinkID != nil) != *filter.HasParent {
		return false
	}
	return true
}

func (f *fakeLinkStore) FindAll(_ context.Context, filter linking.LinkFilter) ([]linking.MarketplaceLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []linking.MarketplaceLink
	for _, link := range f.links {
		if matchesFilter(link, filter) {
			out = append(out, *cloneLink(link))
		}
	}
	return out, nil
}

func (f *fakeLinkStore) Count(ctx context.Context, filter linking.LinkFilter) (int64, error) {
	links, err := f.FindAll(ctx, filter)
	return int64(len(links)), err
}

func (f *fakeLinkStore) FindProductIDsWithLinks(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for _, link := range f.links {
		if link.IsProductLevel() {
			out = append(out, link.Linkable.ID)
		}
	}
	return out, nil
}

func (f *fakeLinkStore) FindVariantIDsWithLinks(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for _, link := range f.links {
		if link.IsVariantLevel() {
			out = append(out, link.Linkable.ID)
		}
	}
	return out, nil
}

func (f *fakeLinkStore) Save(_ context.Context, link *linking.MarketplaceLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveHook != nil {
		if err := f.saveHook(link); err != nil {
			return err
		}
	}
	f.links[link.ID] = cloneLink(link)
	return nil
}

func (f *fakeLinkStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.links[id]; !ok {
		return linking.ErrLinkNotFound
	}
	delete(f.links, id)
	return nil
}

// InTransaction snapshots the store and restores it when fn fails,
// mirroring the all-or-nothing contract of the real repository.
func (f *fakeLinkStore) InTransaction(_ context.Context, fn func(repo linking.LinkRepository) error) error {
	f.mu.Lock()
	before := f.snapshot()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.links = before
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeLinkStore) all() []linking.MarketplaceLink {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []linking.MarketplaceLink
	for _, link := range f.links {
		out = append(out, *cloneLink(link))
	}
	return out
}

func (f *fakeLinkStore) byLinkable(linkable linking.Linkable, accountID uuid.UUID) *linking.MarketplaceLink {
	link, err := f.FindByLinkable(context.Background(), linkable, accountID)
	if err != nil {
		return nil
	}
	return link
}

var _ linking.LinkRepository = (*fakeLinkStore)(nil)

// ---------------------------------------------------------------------------
// Catalog fake
// ---------------------------------------------------------------------------

type fakeCatalog struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeCatalog(products ...*catalog.Product) *fakeCatalog {
	m := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeCatalog{products: m}
}

func (f *fakeCatalog) FindProductByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (f *fakeCatalog) FindAllProducts(_ context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeCatalog) FindVariantByID(_ context.Context, id uuid.UUID) (*catalog.Variant, error) {
	for _, p := range f.products {
		for i := range p.Variants {
			if p.Variants[i].ID == id {
				return &p.Variants[i], nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCatalog) FindVariantBySKU(_ context.Context, productID uuid.UUID, sku string) (*catalog.Variant, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	for i := range product.Variants {
		if strings.EqualFold(product.Variants[i].SKU, sku) {
			return &product.Variants[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCatalog) GetOwningProduct(_ context.Context, variantID uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.products {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				return p, nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

var _ catalog.Reader = (*fakeCatalog)(nil)

// ---------------------------------------------------------------------------
// Account fake
// ---------------------------------------------------------------------------

type fakeAccounts struct {
	accounts []linking.MarketplaceAccount
}

func (f *fakeAccounts) FindByID(_ context.Context, id uuid.UUID) (*linking.MarketplaceAccount, error) {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			return &f.accounts[i], nil
		}
	}
	return nil, linking.ErrAccountNotFound
}

func (f *fakeAccounts) FindAll(_ context.Context) ([]linking.MarketplaceAccount, error) {
	return f.accounts, nil
}

func (f *fakeAccounts) FindActive(_ context.Context) ([]linking.MarketplaceAccount, error) {
	var out []linking.MarketplaceAccount
	for i := range f.accounts {
		if f.accounts[i].IsActive {
			out = append(out, f.accounts[i])
		}
	}
	return out, nil
}

var _ linking.AccountReader = (*fakeAccounts)(nil)

// ---------------------------------------------------------------------------
// Marketplace data source fake
// ---------------------------------------------------------------------------

// fakeDataSource answers probes from SKU-keyed tables. Keys are the exact
// (already uppercased) spellings the probe is expected to try.
type fakeDataSource struct {
	products map[string]*linking.ProductMatch
	variants map[string]*linking.VariantMatch
	err      error
}

func (f *fakeDataSource) MatchProduct(_ context.Context, sku string, _ *linking.MarketplaceAccount) (*linking.ProductMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products[sku], nil
}

func (f *fakeDataSource) MatchVariant(_ context.Context, sku string, _ *linking.ProductMatch, _ *linking.MarketplaceAccount) (*linking.VariantMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.variants[sku], nil
}

var _ linking.MarketplaceDataSource = (*fakeDataSource)(nil)

// ---------------------------------------------------------------------------
// Builders
// ---------------------------------------------------------------------------

func buildProduct(name, parentSKU string, variantSKUs ...string) *catalog.Product {
	product := &catalog.Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		ParentSKU:  parentSKU,
	}
	for _, sku := range variantSKUs {
		product.Variants = append(product.Variants, catalog.Variant{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  product.ID,
			SKU:        sku,
		})
	}
	return product
}

func buildAccount(name string, channel linking.ChannelCode, active bool) linking.MarketplaceAccount {
	return linking.MarketplaceAccount{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Channel:    channel,
		IsActive:   active,
	}
}
