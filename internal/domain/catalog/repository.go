package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Reader defines read-only access to the catalog. The linking engine
// consumes the catalog exclusively through this interface.
type Reader interface {
	// FindProductByID finds a product with its variants preloaded
	FindProductByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAllProducts returns all products with variants preloaded
	FindAllProducts(ctx context.Context) ([]Product, error)

	// FindVariantByID finds a variant by its ID
	FindVariantByID(ctx context.Context, id uuid.UUID) (*Variant, error)

	// FindVariantBySKU finds a variant by SKU within a product.
	// Returns shared.ErrNotFound when the product owns no such SKU.
	FindVariantBySKU(ctx context.Context, productID uuid.UUID, sku string) (*Variant, error)

	// GetOwningProduct resolves the product that owns a variant
	GetOwningProduct(ctx context.Context, variantID uuid.UUID) (*Product, error)
}
