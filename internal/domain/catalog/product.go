package catalog

import (
	"strings"

	"github.com/channelbridge/backend/internal/domain/shared"
)

// Product is a catalog product owning zero or more variants.
// The linking engine reads products but never mutates them.
type Product struct {
	shared.BaseEntity
	Name      string    `gorm:"type:varchar(200);not null"`
	ParentSKU string    `gorm:"type:varchar(100);index"`
	Variants  []Variant `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// HasParentSKU reports whether the product carries a usable parent SKU.
// Placeholder values (empty or whitespace) are treated as absent.
func (p *Product) HasParentSKU() bool {
	return strings.TrimSpace(p.ParentSKU) != ""
}

// FindVariantBySKU returns the owned variant with the given SKU, if loaded.
// SKU comparison is case-insensitive to tolerate marketplace-side casing.
func (p *Product) FindVariantBySKU(sku string) (*Variant, bool) {
	for i := range p.Variants {
		if strings.EqualFold(p.Variants[i].SKU, sku) {
			return &p.Variants[i], true
		}
	}
	return nil, false
}
