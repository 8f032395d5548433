package models

import (
	"time"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
)

// MarketplaceLinkModel is the persistence model for the MarketplaceLink
// domain entity. The composite unique index enforces one link per
// (linkable, account) pair at the storage level.
type MarketplaceLinkModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	LinkableType      string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_marketplace_link_identity,priority:1"`
	LinkableID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_marketplace_link_identity,priority:2"`
	AccountID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_marketplace_link_identity,priority:3;index:idx_marketplace_link_account"`
	Level             string     `gorm:"type:varchar(10);not null;index:idx_marketplace_link_level"`
	ParentLinkID      *uuid.UUID `gorm:"type:uuid;index:idx_marketplace_link_parent"`
	InternalSKU       string     `gorm:"type:varchar(100);index"`
	ExternalSKU       string     `gorm:"type:varchar(100)"`
	ExternalProductID string     `gorm:"type:varchar(100);index"`
	ExternalVariantID string     `gorm:"type:varchar(100)"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	LinkedAt          *time.Time
	MarketplaceData   string    `gorm:"type:jsonb"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MarketplaceLinkModel) TableName() string {
	return "marketplace_links"
}

// ToDomain converts the persistence model to a domain MarketplaceLink entity.
func (m *MarketplaceLinkModel) ToDomain() *linking.MarketplaceLink {
	return &linking.MarketplaceLink{
		ID: m.ID,
		Linkable: linking.Linkable{
			Kind: linking.LinkableKind(m.LinkableType),
			ID:   m.LinkableID,
		},
		Level:             linking.LinkLevel(m.Level),
		AccountID:         m.AccountID,
		ParentLinkID:      m.ParentLinkID,
		InternalSKU:       m.InternalSKU,
		ExternalSKU:       m.ExternalSKU,
		ExternalProductID: m.ExternalProductID,
		ExternalVariantID: m.ExternalVariantID,
		Status:            linking.LinkStatus(m.Status),
		LinkedAt:          m.LinkedAt,
		MarketplaceData:   m.MarketplaceData,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain MarketplaceLink entity.
func (m *MarketplaceLinkModel) FromDomain(link *linking.MarketplaceLink) {
	m.ID = link.ID
	m.LinkableType = link.Linkable.Kind.String()
	m.LinkableID = link.Linkable.ID
	m.AccountID = link.AccountID
	m.Level = link.Level.String()
	m.ParentLinkID = link.ParentLinkID
	m.InternalSKU = link.InternalSKU
	m.ExternalSKU = link.ExternalSKU
	m.ExternalProductID = link.ExternalProductID
	m.ExternalVariantID = link.ExternalVariantID
	m.Status = link.Status.String()
	m.LinkedAt = link.LinkedAt
	m.MarketplaceData = link.MarketplaceData
	m.CreatedAt = link.CreatedAt
	m.UpdatedAt = link.UpdatedAt
}

// MarketplaceLinkModelFromDomain creates a new persistence model from a domain MarketplaceLink entity.
func MarketplaceLinkModelFromDomain(link *linking.MarketplaceLink) *MarketplaceLinkModel {
	m := &MarketplaceLinkModel{}
	m.FromDomain(link)
	return m
}
