package linking

import (
	"context"

	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChannelCode identifies the marketplace a given account integrates with
type ChannelCode string

const (
	// ChannelCodeShopify represents Shopify stores
	ChannelCodeShopify ChannelCode = "SHOPIFY"
	// ChannelCodeAmazon represents Amazon Seller Central
	ChannelCodeAmazon ChannelCode = "AMAZON"
	// ChannelCodeEbay represents eBay
	ChannelCodeEbay ChannelCode = "EBAY"
	// ChannelCodeEtsy represents Etsy
	ChannelCodeEtsy ChannelCode = "ETSY"
	// ChannelCodeWoo represents WooCommerce storefronts
	ChannelCodeWoo ChannelCode = "WOOCOMMERCE"
)

// IsValid checks if the channel code is a known value
func (c ChannelCode) IsValid() bool {
	switch c {
	case ChannelCodeShopify, ChannelCodeAmazon, ChannelCodeEbay, ChannelCodeEtsy, ChannelCodeWoo:
		return true
	default:
		return false
	}
}

// String returns the string representation of ChannelCode
func (c ChannelCode) String() string {
	return string(c)
}

// MarketplaceAccount is one connected marketplace integration. Credentials
// are opaque to the linking engine; accounts are read-only here.
type MarketplaceAccount struct {
	shared.BaseEntity
	Name        string      `gorm:"type:varchar(200);not null"`
	Channel     ChannelCode `gorm:"type:varchar(20);not null;index"`
	IsActive    bool        `gorm:"not null;default:true"`
	Credentials string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MarketplaceAccount) TableName() string {
	return "marketplace_accounts"
}

// ValidateChannel checks that the account carries a known channel code
func (a *MarketplaceAccount) ValidateChannel() error {
	if a.Channel == "" {
		return ErrAccountMissingChannel
	}
	if !a.Channel.IsValid() {
		return ErrInvalidChannelCode
	}
	return nil
}

// AccountReader defines read-only access to marketplace accounts
type AccountReader interface {
	// FindByID finds an account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*MarketplaceAccount, error)

	// FindAll returns all accounts
	FindAll(ctx context.Context) ([]MarketplaceAccount, error)

	// FindActive returns accounts eligible for auto-linking
	FindActive(ctx context.Context) ([]MarketplaceAccount, error)
}
