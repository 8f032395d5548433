package linking

import (
	"github.com/google/uuid"
)

// LinkableKind discriminates the catalog entity a link points at
type LinkableKind string

const (
	// LinkableKindProduct references a catalog product
	LinkableKindProduct LinkableKind = "product"
	// LinkableKindVariant references a catalog variant
	LinkableKindVariant LinkableKind = "variant"
)

// IsValid checks if the kind is a known value
func (k LinkableKind) IsValid() bool {
	return k == LinkableKindProduct || k == LinkableKindVariant
}

// String returns the string representation of LinkableKind
func (k LinkableKind) String() string {
	return string(k)
}

// Linkable is a tagged reference to either a catalog product or a catalog
// variant. All catalog lookups dispatch on Kind; no runtime type inspection.
type Linkable struct {
	Kind LinkableKind `json:"kind"`
	ID   uuid.UUID    `json:"id"`
}

// ProductLinkable builds a product reference
func ProductLinkable(productID uuid.UUID) Linkable {
	return Linkable{Kind: LinkableKindProduct, ID: productID}
}

// VariantLinkable builds a variant reference
func VariantLinkable(variantID uuid.UUID) Linkable {
	return Linkable{Kind: LinkableKindVariant, ID: variantID}
}

// IsValid checks the reference has a known kind and a non-nil ID
func (l Linkable) IsValid() bool {
	return l.Kind.IsValid() && l.ID != uuid.Nil
}

// Level derives the link level implied by the referenced kind
func (l Linkable) Level() LinkLevel {
	if l.Kind == LinkableKindVariant {
		return LinkLevelVariant
	}
	return LinkLevelProduct
}
