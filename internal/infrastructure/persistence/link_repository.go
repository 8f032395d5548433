package persistence

import (
	"context"
	"errors"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/channelbridge/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLinkRepository implements LinkRepository using GORM
type GormLinkRepository struct {
	db *gorm.DB
}

// NewGormLinkRepository creates a new GormLinkRepository
func NewGormLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// ---------------------------------------------------------------------------
// LinkReader implementation
// ---------------------------------------------------------------------------

// FindByID finds a link by its ID
func (r *GormLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*linking.MarketplaceLink, error) {
	var model models.MarketplaceLinkModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, linking.ErrLinkNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLinkable finds the unique link for a (linkable, account) pair
func (r *GormLinkRepository) FindByLinkable(ctx context.Context, linkable linking.Linkable, accountID uuid.UUID) (*linking.MarketplaceLink, error) {
	var model models.MarketplaceLinkModel
	if err := r.db.WithContext(ctx).
		Where("linkable_type = ? AND linkable_id = ? AND account_id = ?",
			linkable.Kind, linkable.ID, accountID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, linking.ErrLinkNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByParent finds all variant-level links pointing at a parent link
func (r *GormLinkRepository) FindByParent(ctx context.Context, parentLinkID uuid.UUID) ([]linking.MarketplaceLink, error) {
	var linkModels []models.MarketplaceLinkModel
	if err := r.db.WithContext(ctx).
		Where("parent_link_id = ?", parentLinkID).
		Order("created_at ASC").
		Find(&linkModels).Error; err != nil {
		return nil, err
	}
	return toDomainLinks(linkModels), nil
}

// ---------------------------------------------------------------------------
// LinkFinder implementation
// ---------------------------------------------------------------------------

// FindAll finds links matching the filter
func (r *GormLinkRepository) FindAll(ctx context.Context, filter linking.LinkFilter) ([]linking.MarketplaceLink, error) {
	var linkModels []models.MarketplaceLinkModel
	query := applyLinkFilter(r.db.WithContext(ctx).Model(&models.MarketplaceLinkModel{}), filter)

	if err := query.Order("created_at ASC").Find(&linkModels).Error; err != nil {
		return nil, err
	}
	return toDomainLinks(linkModels), nil
}

// Count counts links matching the filter
func (r *GormLinkRepository) Count(ctx context.Context, filter linking.LinkFilter) (int64, error) {
	var count int64
	query := applyLinkFilter(r.db.WithContext(ctx).Model(&models.MarketplaceLinkModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindProductIDsWithLinks returns IDs of catalog products that have a
// product-level link under any account
func (r *GormLinkRepository) FindProductIDsWithLinks(ctx context.Context) ([]uuid.UUID, error) {
	return r.linkableIDsByType(ctx, linking.LinkableKindProduct)
}

// FindVariantIDsWithLinks returns IDs of catalog variants that have a
// variant-level link under any account
func (r *GormLinkRepository) FindVariantIDsWithLinks(ctx context.Context) ([]uuid.UUID, error) {
	return r.linkableIDsByType(ctx, linking.LinkableKindVariant)
}

func (r *GormLinkRepository) linkableIDsByType(ctx context.Context, kind linking.LinkableKind) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.MarketplaceLinkModel{}).
		Distinct("linkable_id").
		Where("linkable_type = ?", kind).
		Pluck("linkable_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// LinkWriter implementation
// ---------------------------------------------------------------------------

// Save creates or updates a link
func (r *GormLinkRepository) Save(ctx context.Context, link *linking.MarketplaceLink) error {
	model := models.MarketplaceLinkModelFromDomain(link)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete permanently removes a link
func (r *GormLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MarketplaceLinkModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return linking.ErrLinkNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// LinkUnitOfWork implementation
// ---------------------------------------------------------------------------

// InTransaction executes fn against a repository bound to one database
// transaction. Every write inside fn commits or rolls back as one unit.
func (r *GormLinkRepository) InTransaction(ctx context.Context, fn func(repo linking.LinkRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormLinkRepository(tx))
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func applyLinkFilter(query *gorm.DB, filter linking.LinkFilter) *gorm.DB {
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Level != nil {
		query = query.Where("level = ?", *filter.Level)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.HasParent != nil {
		if *filter.HasParent {
			query = query.Where("parent_link_id IS NOT NULL")
		} else {
			query = query.Where("parent_link_id IS NULL")
		}
	}
	return query
}

func toDomainLinks(linkModels []models.MarketplaceLinkModel) []linking.MarketplaceLink {
	links := make([]linking.MarketplaceLink, len(linkModels))
	for i, model := range linkModels {
		links[i] = *model.ToDomain()
	}
	return links
}

// Ensure GormLinkRepository implements LinkRepository
var _ linking.LinkRepository = (*GormLinkRepository)(nil)
