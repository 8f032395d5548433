package linking

import (
	"context"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// LinkRepository Interface
// ---------------------------------------------------------------------------

// LinkReader defines point lookups over marketplace links
type LinkReader interface {
	// FindByID finds a link by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*MarketplaceLink, error)

	// FindByLinkable finds the unique link for a (linkable, account) pair.
	// Returns ErrLinkNotFound when no link exists.
	FindByLinkable(ctx context.Context, linkable Linkable, accountID uuid.UUID) (*MarketplaceLink, error)

	// FindByParent finds all variant-level links pointing at a parent link
	FindByParent(ctx context.Context, parentLinkID uuid.UUID) ([]MarketplaceLink, error)
}

// LinkFinder defines bulk queries over marketplace links
type LinkFinder interface {
	// FindAll finds links matching the filter
	FindAll(ctx context.Context, filter LinkFilter) ([]MarketplaceLink, error)

	// Count counts links matching the filter
	Count(ctx context.Context, filter LinkFilter) (int64, error)

	// FindProductIDsWithLinks returns IDs of catalog products that have a
	// product-level link under any account
	FindProductIDsWithLinks(ctx context.Context) ([]uuid.UUID, error)

	// FindVariantIDsWithLinks returns IDs of catalog variants that have a
	// variant-level link under any account
	FindVariantIDsWithLinks(ctx context.Context) ([]uuid.UUID, error)
}

// LinkWriter defines mutations of marketplace links
type LinkWriter interface {
	// Save creates or updates a link
	Save(ctx context.Context, link *MarketplaceLink) error

	// Delete permanently removes a link. Administrative action only;
	// reconciliation never deletes.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LinkUnitOfWork executes a function against a transaction-bound repository.
// Every write inside fn commits or rolls back as one atomic unit.
type LinkUnitOfWork interface {
	InTransaction(ctx context.Context, fn func(repo LinkRepository) error) error
}

// LinkRepository is the full persistence contract for marketplace links.
// It is the only shared mutable state in the linking engine.
type LinkRepository interface {
	LinkReader
	LinkFinder
	LinkWriter
	LinkUnitOfWork
}

// ---------------------------------------------------------------------------
// Filter
// ---------------------------------------------------------------------------

// LinkFilter defines filter criteria for bulk link queries. Nil fields are
// not applied.
type LinkFilter struct {
	AccountID *uuid.UUID
	Level     *LinkLevel
	Status    *LinkStatus
	// HasParent filters variant-level links on parent presence:
	// true keeps links with a parent set, false keeps orphans
	HasParent *bool
}

// ByAccount returns a filter scoped to one account
func ByAccount(accountID uuid.UUID) LinkFilter {
	return LinkFilter{AccountID: &accountID}
}

// WithLevel returns a copy of the filter scoped to one link level
func (f LinkFilter) WithLevel(level LinkLevel) LinkFilter {
	f.Level = &level
	return f
}

// WithStatus returns a copy of the filter scoped to one status
func (f LinkFilter) WithStatus(status LinkStatus) LinkFilter {
	f.Status = &status
	return f
}

// WithHasParent returns a copy of the filter scoped on parent presence
func (f LinkFilter) WithHasParent(hasParent bool) LinkFilter {
	f.HasParent = &hasParent
	return f
}
