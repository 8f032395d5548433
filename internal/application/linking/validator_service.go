package linking

import (
	"context"
	"fmt"
	"time"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ValidatorService scans the link store for structural defects. It is
// read-only: defects are returned as data for reporting or repair, never
// thrown. All three detection passes run independently and accumulate into
// one report, so a link genuinely violating multiple checks appears once
// per violated check.
type ValidatorService struct {
	links    linking.LinkRepository
	accounts linking.AccountReader
	logger   *zap.Logger
}

// NewValidatorService creates a new ValidatorService
func NewValidatorService(links linking.LinkRepository, accounts linking.AccountReader, logger *zap.Logger) *ValidatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidatorService{links: links, accounts: accounts, logger: logger}
}

// Validate reports every structural defect in the link graph, optionally
// scoped to one account.
func (s *ValidatorService) Validate(ctx context.Context, accountID *uuid.UUID) (*linking.ValidationReport, error) {
	filter := linking.LinkFilter{AccountID: accountID}

	variantLinks, err := s.links.FindAll(ctx, filter.WithLevel(linking.LinkLevelVariant))
	if err != nil {
		return nil, err
	}
	productLinks, err := s.links.FindAll(ctx, filter.WithLevel(linking.LinkLevelProduct))
	if err != nil {
		return nil, err
	}

	// Parent pointers may legitimately cross the account filter boundary, so
	// existence checks and child scans always run against the full store.
	allLinks, err := s.links.FindAll(ctx, linking.LinkFilter{})
	if err != nil {
		return nil, err
	}
	knownIDs := make(map[uuid.UUID]struct{}, len(allLinks))
	childrenByParent := make(map[uuid.UUID][]*linking.MarketplaceLink)
	for i := range allLinks {
		knownIDs[allLinks[i].ID] = struct{}{}
		if allLinks[i].IsVariantLevel() && allLinks[i].ParentLinkID != nil {
			pid := *allLinks[i].ParentLinkID
			childrenByParent[pid] = append(childrenByParent[pid], &allLinks[i])
		}
	}

	channels, err := s.channelIndex(ctx)
	if err != nil {
		return nil, err
	}

	report := &linking.ValidationReport{AccountID: accountID, GeneratedAt: time.Now()}
	s.detectOrphanedVariants(variantLinks, channels, report)
	s.detectInvalidParents(variantLinks, knownIDs, channels, report)
	s.detectCrossMarketplaceVariants(productLinks, childrenByParent, channels, report)
	report.TotalIssues = len(report.Issues)

	s.logger.Info("link integrity validation completed",
		zap.Int("total_issues", report.TotalIssues),
		zap.Int("links_scanned", len(allLinks)))
	return report, nil
}

// detectOrphanedVariants flags variant-level links with no parent reference
func (s *ValidatorService) detectOrphanedVariants(
	variantLinks []linking.MarketplaceLink,
	channels map[uuid.UUID]linking.ChannelCode,
	report *linking.ValidationReport,
) {
	for i := range variantLinks {
		link := &variantLinks[i]
		if !link.IsOrphaned() {
			continue
		}
		report.Issues = append(report.Issues, linking.Issue{
			Type:      linking.IssueOrphanedVariant,
			LinkID:    link.ID,
			AccountID: link.AccountID,
			Channel:   channels[link.AccountID],
			SKU:       link.InternalSKU,
			Detail:    "variant-level link has no parent link",
		})
	}
}

// detectInvalidParents flags variant-level links whose parent pointer dangles
func (s *ValidatorService) detectInvalidParents(
	variantLinks []linking.MarketplaceLink,
	knownIDs map[uuid.UUID]struct{},
	channels map[uuid.UUID]linking.ChannelCode,
	report *linking.ValidationReport,
) {
	for i := range variantLinks {
		link := &variantLinks[i]
		if link.ParentLinkID == nil {
			continue
		}
		if _, ok := knownIDs[*link.ParentLinkID]; ok {
			continue
		}
		report.Issues = append(report.Issues, linking.Issue{
			Type:      linking.IssueInvalidParent,
			LinkID:    link.ID,
			AccountID: link.AccountID,
			Channel:   channels[link.AccountID],
			SKU:       link.InternalSKU,
			Detail:    fmt.Sprintf("parent link %s no longer exists", *link.ParentLinkID),
		})
	}
}

// detectCrossMarketplaceVariants flags product-level links with at least one
// child on a different account
func (s *ValidatorService) detectCrossMarketplaceVariants(
	productLinks []linking.MarketplaceLink,
	childrenByParent map[uuid.UUID][]*linking.MarketplaceLink,
	channels map[uuid.UUID]linking.ChannelCode,
	report *linking.ValidationReport,
) {
	for i := range productLinks {
		link := &productLinks[i]
		foreign := 0
		for _, child := range childrenByParent[link.ID] {
			if child.AccountID != link.AccountID {
				foreign++
			}
		}
		if foreign == 0 {
			continue
		}
		report.Issues = append(report.Issues, linking.Issue{
			Type:      linking.IssueCrossMarketplaceVariants,
			LinkID:    link.ID,
			AccountID: link.AccountID,
			Channel:   channels[link.AccountID],
			SKU:       link.InternalSKU,
			Detail:    fmt.Sprintf("%d child link(s) belong to a different account", foreign),
		})
	}
}

func (s *ValidatorService) channelIndex(ctx context.Context) (map[uuid.UUID]linking.ChannelCode, error) {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]linking.ChannelCode, len(accounts))
	for i := range accounts {
		index[accounts[i].ID] = accounts[i].Channel
	}
	return index, nil
}
