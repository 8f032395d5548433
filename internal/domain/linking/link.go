package linking

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Link level and status
// ---------------------------------------------------------------------------

// LinkLevel tags a link as product-level or variant-level. It is derived
// from the linkable kind and never mutated independently.
type LinkLevel string

const (
	// LinkLevelProduct marks a product-level link
	LinkLevelProduct LinkLevel = "product"
	// LinkLevelVariant marks a variant-level link
	LinkLevelVariant LinkLevel = "variant"
)

// IsValid checks if the level is a known value
func (l LinkLevel) IsValid() bool {
	return l == LinkLevelProduct || l == LinkLevelVariant
}

// String returns the string representation of LinkLevel
func (l LinkLevel) String() string {
	return string(l)
}

// LinkStatus represents the lifecycle state of a marketplace link
type LinkStatus string

const (
	// LinkStatusPending means the link exists but has no confirmed marketplace identity yet
	LinkStatusPending LinkStatus = "pending"
	// LinkStatusLinked means the link is confirmed on the marketplace side
	LinkStatusLinked LinkStatus = "linked"
	// LinkStatusFailed means the last linking attempt failed
	LinkStatusFailed LinkStatus = "failed"
	// LinkStatusUnlinked means a previously linked entity disappeared from a sync pass
	LinkStatusUnlinked LinkStatus = "unlinked"
)

// IsValid checks if the status is a known value
func (s LinkStatus) IsValid() bool {
	switch s {
	case LinkStatusPending, LinkStatusLinked, LinkStatusFailed, LinkStatusUnlinked:
		return true
	default:
		return false
	}
}

// String returns the string representation of LinkStatus
func (s LinkStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// MarketplaceLink Entity
// ---------------------------------------------------------------------------

// MarketplaceLink associates one catalog entity (product or variant) with
// one record on one marketplace account. Variant-level links point at the
// product-level link of the same product and account through ParentLinkID.
//
// Invariants upheld by the entity and its store:
//   - at most one link per (linkable, account) pair
//   - Level always matches Linkable.Kind
//   - LinkedAt is non-nil exactly when Status is "linked"
//
// A variant-level link with a nil ParentLinkID is a detectable defect, not a
// write-time rejection: marketplace data legitimately arrives out of order.
type MarketplaceLink struct {
	ID                uuid.UUID
	Linkable          Linkable
	Level             LinkLevel
	AccountID         uuid.UUID
	ParentLinkID      *uuid.UUID
	InternalSKU       string
	ExternalSKU       string
	ExternalProductID string
	ExternalVariantID string
	Status            LinkStatus
	LinkedAt          *time.Time
	// MarketplaceData is an opaque payload snapshot kept for audit/debugging
	MarketplaceData string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewProductLink creates a pending product-level link
func NewProductLink(productID, accountID uuid.UUID, internalSKU string) (*MarketplaceLink, error) {
	return newLink(ProductLinkable(productID), accountID, internalSKU)
}

// NewVariantLink creates a pending variant-level link. The parent may be
// attached later when the product-level link becomes known.
func NewVariantLink(variantID, accountID uuid.UUID, internalSKU string) (*MarketplaceLink, error) {
	return newLink(VariantLinkable(variantID), accountID, internalSKU)
}

func newLink(linkable Linkable, accountID uuid.UUID, internalSKU string) (*MarketplaceLink, error) {
	if !linkable.IsValid() {
		return nil, ErrLinkInvalidLinkable
	}
	if accountID == uuid.Nil {
		return nil, ErrLinkInvalidAccount
	}

	now := time.Now()
	return &MarketplaceLink{
		ID:          uuid.New(),
		Linkable:    linkable,
		Level:       linkable.Level(),
		AccountID:   accountID,
		InternalSKU: internalSKU,
		Status:      LinkStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate checks structural consistency of the link
func (l *MarketplaceLink) Validate() error {
	if !l.Linkable.IsValid() {
		return ErrLinkInvalidLinkable
	}
	if l.AccountID == uuid.Nil {
		return ErrLinkInvalidAccount
	}
	if !l.Status.IsValid() {
		return ErrLinkInvalidStatus
	}
	if l.Level != l.Linkable.Level() {
		return ErrLinkInvalidLinkable
	}
	if l.Level == LinkLevelProduct && l.ParentLinkID != nil {
		return ErrLinkNotVariantLevel
	}
	return nil
}

// IsProductLevel reports whether this is a product-level link
func (l *MarketplaceLink) IsProductLevel() bool {
	return l.Level == LinkLevelProduct
}

// IsVariantLevel reports whether this is a variant-level link
func (l *MarketplaceLink) IsVariantLevel() bool {
	return l.Level == LinkLevelVariant
}

// IsOrphaned reports whether a variant-level link is missing its parent
func (l *MarketplaceLink) IsOrphaned() bool {
	return l.IsVariantLevel() && l.ParentLinkID == nil
}

// AttachParent points a variant-level link at its product-level parent.
// Re-attaching to a different parent is allowed; every sync pass forces
// the correct parent so drifted links self-heal.
func (l *MarketplaceLink) AttachParent(parentLinkID uuid.UUID) error {
	if !l.IsVariantLevel() {
		return ErrLinkNotVariantLevel
	}
	l.ParentLinkID = &parentLinkID
	l.UpdatedAt = time.Now()
	return nil
}

// AttachParentLink points a variant-level link at a concrete product-level
// parent, rejecting parents of the wrong level or from another account.
func (l *MarketplaceLink) AttachParentLink(parent *MarketplaceLink) error {
	if !parent.IsProductLevel() {
		return ErrLinkNotProductLevel
	}
	if parent.AccountID != l.AccountID {
		return ErrLinkParentMismatch
	}
	return l.AttachParent(parent.ID)
}

// DetachParent clears a dangling parent reference
func (l *MarketplaceLink) DetachParent() {
	l.ParentLinkID = nil
	l.UpdatedAt = time.Now()
}

// MarkLinked transitions the link to linked and stamps LinkedAt
func (l *MarketplaceLink) MarkLinked() {
	now := time.Now()
	l.Status = LinkStatusLinked
	l.LinkedAt = &now
	l.UpdatedAt = now
}

// MarkPending transitions the link back to pending and clears LinkedAt
func (l *MarketplaceLink) MarkPending() {
	l.Status = LinkStatusPending
	l.LinkedAt = nil
	l.UpdatedAt = time.Now()
}

// MarkFailed transitions the link to failed and clears LinkedAt
func (l *MarketplaceLink) MarkFailed() {
	l.Status = LinkStatusFailed
	l.LinkedAt = nil
	l.UpdatedAt = time.Now()
}

// MarkUnlinked transitions the link to unlinked and clears LinkedAt.
// Used when the marketplace stops reporting a previously synced entity.
func (l *MarketplaceLink) MarkUnlinked() {
	l.Status = LinkStatusUnlinked
	l.LinkedAt = nil
	l.UpdatedAt = time.Now()
}

// RefreshExternal updates the marketplace-side identity and payload snapshot
func (l *MarketplaceLink) RefreshExternal(externalProductID, externalVariantID, externalSKU, payload string) {
	l.ExternalProductID = externalProductID
	if l.IsVariantLevel() {
		l.ExternalVariantID = externalVariantID
	}
	l.ExternalSKU = externalSKU
	l.MarketplaceData = payload
	l.UpdatedAt = time.Now()
}
