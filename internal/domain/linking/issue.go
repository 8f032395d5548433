package linking

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Integrity issues
// ---------------------------------------------------------------------------

// IssueType classifies a structural defect in the link graph
type IssueType string

const (
	// IssueOrphanedVariant is a variant-level link with no parent reference
	IssueOrphanedVariant IssueType = "orphaned_variant"
	// IssueInvalidParent is a variant-level link whose parent no longer exists
	IssueInvalidParent IssueType = "invalid_parent"
	// IssueCrossMarketplaceVariants is a product-level link with a child on a
	// different account. Must not occur under normal operation; signals manual
	// data edits or a bug elsewhere.
	IssueCrossMarketplaceVariants IssueType = "cross_marketplace_variants"
)

// IsValid checks if the issue type is a known value
func (t IssueType) IsValid() bool {
	switch t {
	case IssueOrphanedVariant, IssueInvalidParent, IssueCrossMarketplaceVariants:
		return true
	default:
		return false
	}
}

// AutoFixable reports whether the repairer has a deterministic fix strategy
func (t IssueType) AutoFixable() bool {
	return t == IssueOrphanedVariant || t == IssueInvalidParent
}

// Issue is one detected defect, carrying enough context for a human or the
// repairer to act on it.
type Issue struct {
	Type      IssueType   `json:"type"`
	LinkID    uuid.UUID   `json:"link_id"`
	AccountID uuid.UUID   `json:"account_id"`
	Channel   ChannelCode `json:"channel,omitempty"`
	SKU       string      `json:"sku,omitempty"`
	Detail    string      `json:"detail,omitempty"`
}

// ValidationReport is the result of one validator pass
type ValidationReport struct {
	TotalIssues int        `json:"total_issues"`
	Issues      []Issue    `json:"issues"`
	AccountID   *uuid.UUID `json:"account_id,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// ---------------------------------------------------------------------------
// Repair results
// ---------------------------------------------------------------------------

// RepairFailure is one issue the repairer could not fix, with the reason
type RepairFailure struct {
	Issue  Issue  `json:"issue"`
	Reason string `json:"reason"`
}

// RepairReport separates fixed issues from failed ones. One failure never
// blocks the remaining fixes.
type RepairReport struct {
	Fixed  []Issue         `json:"fixed"`
	Failed []RepairFailure `json:"failed"`
}

// ---------------------------------------------------------------------------
// Rebuild results
// ---------------------------------------------------------------------------

// RebuildReport summarizes a best-effort parent-rewiring pass for one account
type RebuildReport struct {
	ProductLinksProcessed int      `json:"product_links_processed"`
	VariantLinksFixed     int      `json:"variant_links_fixed"`
	OrphanedLinksFound    int      `json:"orphaned_links_found"`
	Errors                []string `json:"errors,omitempty"`
}

// ---------------------------------------------------------------------------
// Hierarchy statistics
// ---------------------------------------------------------------------------

// StatusCounts maps link status to the number of links in that status
type StatusCounts map[LinkStatus]int64

// HierarchyStats aggregates link-graph health counters. HierarchicalLinks
// counts variant-level links with a valid parent reference set.
type HierarchyStats struct {
	Total                  int64          `json:"total"`
	ProductLinks           int64          `json:"product_links"`
	VariantLinks           int64          `json:"variant_links"`
	HierarchicalLinks      int64          `json:"hierarchical_links"`
	OrphanedVariants       int64          `json:"orphaned_variants"`
	ByStatus               StatusCounts   `json:"by_status"`
	HierarchyCompletionPct float64        `json:"hierarchy_completion_pct"`
	ByAccount              []AccountStats `json:"by_account,omitempty"`
}

// AccountStats groups the same counters for one marketplace account
type AccountStats struct {
	AccountID              uuid.UUID    `json:"account_id"`
	AccountName            string       `json:"account_name,omitempty"`
	Channel                ChannelCode  `json:"channel"`
	Total                  int64        `json:"total"`
	ProductLinks           int64        `json:"product_links"`
	VariantLinks           int64        `json:"variant_links"`
	HierarchicalLinks      int64        `json:"hierarchical_links"`
	OrphanedVariants       int64        `json:"orphaned_variants"`
	ByStatus               StatusCounts `json:"by_status"`
	HierarchyCompletionPct float64      `json:"hierarchy_completion_pct"`
}

// CompletionPct computes hierarchical coverage of variant links as a
// percentage. Vacuously complete when there are no variant links.
func CompletionPct(hierarchical, variants int64) float64 {
	if variants == 0 {
		return 100
	}
	return float64(hierarchical) / float64(variants) * 100
}
