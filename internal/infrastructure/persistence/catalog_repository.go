package persistence

import (
	"context"
	"errors"

	"github.com/channelbridge/backend/internal/domain/catalog"
	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogRepository implements catalog.Reader using GORM. The linking
// engine never writes catalog data, so only read paths exist here.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindProductByID finds a product with its variants preloaded
func (r *GormCatalogRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAllProducts returns all products with their variants preloaded
func (r *GormCatalogRepository) FindAllProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Order("created_at ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindVariantByID finds a variant by its ID
func (r *GormCatalogRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindVariantBySKU finds a variant of one product by SKU, case-insensitively
func (r *GormCatalogRepository) FindVariantBySKU(ctx context.Context, productID uuid.UUID, sku string) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND LOWER(sku) = LOWER(?)", productID, sku).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// GetOwningProduct resolves the product a variant belongs to
func (r *GormCatalogRepository) GetOwningProduct(ctx context.Context, variantID uuid.UUID) (*catalog.Product, error) {
	variant, err := r.FindVariantByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return r.FindProductByID(ctx, variant.ProductID)
}

// Ensure GormCatalogRepository implements catalog.Reader
var _ catalog.Reader = (*GormCatalogRepository)(nil)
