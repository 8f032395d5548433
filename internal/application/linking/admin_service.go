package linking

import (
	"context"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminService covers link inspection and the explicit administrative
// actions: marking a link unlinked and permanently deleting a link subtree.
// These are the only paths that remove link data; reconciliation never
// deletes.
type AdminService struct {
	links  linking.LinkRepository
	logger *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(links linking.LinkRepository, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{links: links, logger: logger}
}

// GetLink fetches a single link by ID
func (s *AdminService) GetLink(ctx context.Context, linkID uuid.UUID) (*linking.MarketplaceLink, error) {
	return s.links.FindByID(ctx, linkID)
}

// ListLinks returns links matching the filter together with the total count
func (s *AdminService) ListLinks(ctx context.Context, filter linking.LinkFilter) ([]linking.MarketplaceLink, int64, error) {
	links, err := s.links.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.links.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

// UnlinkLink marks a link unlinked without removing it
func (s *AdminService) UnlinkLink(ctx context.Context, linkID uuid.UUID) (*linking.MarketplaceLink, error) {
	link, err := s.links.FindByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	link.MarkUnlinked()
	if err := s.links.Save(ctx, link); err != nil {
		return nil, err
	}
	s.logger.Info("link unlinked", zap.String("link_id", linkID.String()))
	return link, nil
}

// DeleteLinkTree permanently deletes a link. For a product-level link the
// children are deleted first so no dangling parent pointers are left behind.
func (s *AdminService) DeleteLinkTree(ctx context.Context, linkID uuid.UUID) error {
	err := s.links.InTransaction(ctx, func(repo linking.LinkRepository) error {
		link, err := repo.FindByID(ctx, linkID)
		if err != nil {
			return err
		}

		if link.IsProductLevel() {
			children, err := repo.FindByParent(ctx, link.ID)
			if err != nil {
				return err
			}
			for i := range children {
				if err := repo.Delete(ctx, children[i].ID); err != nil {
					return err
				}
			}
		}
		return repo.Delete(ctx, link.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("link tree deleted", zap.String("link_id", linkID.String()))
	return nil
}
