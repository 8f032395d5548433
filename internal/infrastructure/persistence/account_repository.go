package persistence

import (
	"context"
	"errors"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements linking.AccountReader using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*linking.MarketplaceAccount, error) {
	var account linking.MarketplaceAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, linking.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll returns all accounts
func (r *GormAccountRepository) FindAll(ctx context.Context) ([]linking.MarketplaceAccount, error) {
	var accounts []linking.MarketplaceAccount
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindActive returns accounts eligible for auto-linking
func (r *GormAccountRepository) FindActive(ctx context.Context) ([]linking.MarketplaceAccount, error) {
	var accounts []linking.MarketplaceAccount
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Ensure GormAccountRepository implements linking.AccountReader
var _ linking.AccountReader = (*GormAccountRepository)(nil)
