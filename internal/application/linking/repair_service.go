package linking

import (
	"context"
	"errors"
	"fmt"

	"github.com/channelbridge/backend/internal/domain/catalog"
	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/channelbridge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RepairService consumes validator output and applies deterministic fixes
// per defect type. Each fix runs in its own transaction; one failure never
// blocks the remaining fixes.
type RepairService struct {
	links     linking.LinkRepository
	catalog   catalog.Reader
	validator *ValidatorService
	logger    *zap.Logger
}

// NewRepairService creates a new RepairService
func NewRepairService(
	links linking.LinkRepository,
	catalogReader catalog.Reader,
	validator *ValidatorService,
	logger *zap.Logger,
) *RepairService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepairService{
		links:     links,
		catalog:   catalogReader,
		validator: validator,
		logger:    logger,
	}
}

// Repair attempts to fix the given issues. With a nil or empty issue list it
// re-runs the validator over the whole store and fixes everything found.
// cross_marketplace_variants defects are never auto-fixed; they are returned
// among the failures for manual intervention.
func (s *RepairService) Repair(ctx context.Context, issues []linking.Issue) (*linking.RepairReport, error) {
	if len(issues) == 0 {
		validation, err := s.validator.Validate(ctx, nil)
		if err != nil {
			return nil, err
		}
		issues = validation.Issues
	}

	report := &linking.RepairReport{}
	for _, issue := range issues {
		if err := s.repairOne(ctx, issue); err != nil {
			report.Failed = append(report.Failed, linking.RepairFailure{
				Issue:  issue,
				Reason: err.Error(),
			})
			continue
		}
		report.Fixed = append(report.Fixed, issue)
	}

	s.logger.Info("link repair completed",
		zap.Int("fixed", len(report.Fixed)),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

func (s *RepairService) repairOne(ctx context.Context, issue linking.Issue) error {
	switch issue.Type {
	case linking.IssueOrphanedVariant:
		return s.links.InTransaction(ctx, func(repo linking.LinkRepository) error {
			link, err := repo.FindByID(ctx, issue.LinkID)
			if err != nil {
				return err
			}
			return s.fixOrphanedVariant(ctx, repo, link)
		})
	case linking.IssueInvalidParent:
		// Clearing the dangling pointer turns the defect into an orphan,
		// which the orphan strategy then resolves.
		return s.links.InTransaction(ctx, func(repo linking.LinkRepository) error {
			link, err := repo.FindByID(ctx, issue.LinkID)
			if err != nil {
				return err
			}
			link.DetachParent()
			return s.fixOrphanedVariant(ctx, repo, link)
		})
	case linking.IssueCrossMarketplaceVariants:
		return fmt.Errorf("%w: cross-marketplace hierarchy on link %s requires manual intervention",
			shared.ErrUnfixableDefect, issue.LinkID)
	default:
		return fmt.Errorf("unknown issue type %q", issue.Type)
	}
}

// fixOrphanedVariant attaches the variant link to the product-level link of
// its owning product, creating a pending product-level link when none exists
// yet (there is no confirmed marketplace identity to mark it linked with).
func (s *RepairService) fixOrphanedVariant(
	ctx context.Context,
	repo linking.LinkRepository,
	link *linking.MarketplaceLink,
) error {
	if !link.IsVariantLevel() {
		return linking.ErrLinkNotVariantLevel
	}

	product, err := s.catalog.GetOwningProduct(ctx, link.Linkable.ID)
	if err != nil {
		return fmt.Errorf("resolve owning product: %w", err)
	}

	parent, err := repo.FindByLinkable(ctx, linking.ProductLinkable(product.ID), link.AccountID)
	if errors.Is(err, linking.ErrLinkNotFound) {
		parent, err = linking.NewProductLink(product.ID, link.AccountID, product.ParentSKU)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, parent); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := link.AttachParent(parent.ID); err != nil {
		return err
	}
	return repo.Save(ctx, link)
}
