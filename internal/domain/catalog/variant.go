package catalog

import (
	"strings"

	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Variant is a sellable variation of a product, identified by SKU within
// its owning product. Read-only from the linking engine's perspective.
type Variant struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU       string    `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// HasSKU reports whether the variant carries a non-empty SKU.
func (v *Variant) HasSKU() bool {
	return strings.TrimSpace(v.SKU) != ""
}
