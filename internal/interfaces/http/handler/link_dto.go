package handler

import (
	"time"

	applinking "github.com/channelbridge/backend/internal/application/linking"
	"github.com/channelbridge/backend/internal/domain/linking"
)

// SyncHierarchyRequest represents a request to sync one product hierarchy
// @Description Request body for syncing the link hierarchy of one product
type SyncHierarchyRequest struct {
	Product  applinking.ProductSyncData   `json:"product" binding:"required"`
	Variants []applinking.VariantSyncData `json:"variants"`
}

// ListLinksQuery represents filter parameters for link listing
type ListLinksQuery struct {
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	Level     string `form:"level" binding:"omitempty,oneof=product variant"`
	Status    string `form:"status" binding:"omitempty,oneof=pending linked failed unlinked"`
	HasParent *bool  `form:"has_parent"`
}

// LinkResponse represents one marketplace link in the response
// @Description Marketplace link response object
type LinkResponse struct {
	ID                string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	LinkableType      string  `json:"linkable_type" example:"variant"`
	LinkableID        string  `json:"linkable_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	AccountID         string  `json:"account_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	Level             string  `json:"level" example:"variant"`
	ParentLinkID      *string `json:"parent_link_id,omitempty"`
	InternalSKU       string  `json:"internal_sku" example:"HD-100-S"`
	ExternalSKU       string  `json:"external_sku,omitempty"`
	ExternalProductID string  `json:"external_product_id,omitempty"`
	ExternalVariantID string  `json:"external_variant_id,omitempty"`
	Status            string  `json:"status" example:"linked"`
	LinkedAt          *string `json:"linked_at,omitempty"`
	CreatedAt         string  `json:"created_at" example:"2026-01-15T10:30:00Z"`
	UpdatedAt         string  `json:"updated_at" example:"2026-01-15T10:30:00Z"`
}

// SyncResultResponse represents the outcome of one hierarchy sync
type SyncResultResponse struct {
	ProductLink   *LinkResponse  `json:"product_link"`
	VariantLinks  []LinkResponse `json:"variant_links"`
	SkippedSKUs   []string       `json:"skipped_skus,omitempty"`
	OrphanedLinks int            `json:"orphaned_links"`
}

// LinkListResponse represents a filtered link listing with the total count
type LinkListResponse struct {
	Links []LinkResponse `json:"links"`
	Total int64          `json:"total"`
}

// AutoLinkResponse represents the outcome of one auto-link pass
type AutoLinkResponse struct {
	LinksCreated int `json:"links_created"`
}

func toLinkResponse(link *linking.MarketplaceLink) *LinkResponse {
	if link == nil {
		return nil
	}

	resp := &LinkResponse{
		ID:                link.ID.String(),
		LinkableType:      link.Linkable.Kind.String(),
		LinkableID:        link.Linkable.ID.String(),
		AccountID:         link.AccountID.String(),
		Level:             link.Level.String(),
		InternalSKU:       link.InternalSKU,
		ExternalSKU:       link.ExternalSKU,
		ExternalProductID: link.ExternalProductID,
		ExternalVariantID: link.ExternalVariantID,
		Status:            link.Status.String(),
		CreatedAt:         link.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         link.UpdatedAt.Format(time.RFC3339),
	}
	if link.ParentLinkID != nil {
		parentID := link.ParentLinkID.String()
		resp.ParentLinkID = &parentID
	}
	if link.LinkedAt != nil {
		linkedAt := link.LinkedAt.Format(time.RFC3339)
		resp.LinkedAt = &linkedAt
	}
	return resp
}

func toLinkResponses(links []linking.MarketplaceLink) []LinkResponse {
	out := make([]LinkResponse, 0, len(links))
	for i := range links {
		out = append(out, *toLinkResponse(&links[i]))
	}
	return out
}

func toSyncResultResponse(result *applinking.SyncResult) *SyncResultResponse {
	return &SyncResultResponse{
		ProductLink:   toLinkResponse(result.ProductLink),
		VariantLinks:  toLinkResponses(result.VariantLinks),
		SkippedSKUs:   result.SkippedSKUs,
		OrphanedLinks: result.OrphanedLinks,
	}
}
