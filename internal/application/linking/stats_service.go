package linking

import (
	"context"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatsCache caches computed hierarchy statistics. Implementations are
// best-effort: a miss or failure only costs a recomputation.
type StatsCache interface {
	Get(ctx context.Context, accountID *uuid.UUID) (*linking.HierarchyStats, bool)
	Set(ctx context.Context, accountID *uuid.UUID, stats *linking.HierarchyStats)
	Invalidate(ctx context.Context)
}

// StatsService aggregates link counts, status breakdowns, and hierarchy
// completion percentages used to monitor link-graph health.
type StatsService struct {
	links    linking.LinkRepository
	accounts linking.AccountReader
	cache    StatsCache
	logger   *zap.Logger
}

// NewStatsService creates a new StatsService. cache may be nil.
func NewStatsService(
	links linking.LinkRepository,
	accounts linking.AccountReader,
	cache StatsCache,
	logger *zap.Logger,
) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{links: links, accounts: accounts, cache: cache, logger: logger}
}

// GetHierarchyStatistics computes link-graph statistics, optionally scoped
// to one account. The per-account breakdown is included only for the
// unscoped report.
func (s *StatsService) GetHierarchyStatistics(ctx context.Context, accountID *uuid.UUID) (*linking.HierarchyStats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx, accountID); ok {
			return stats, nil
		}
	}

	links, err := s.links.FindAll(ctx, linking.LinkFilter{AccountID: accountID})
	if err != nil {
		return nil, err
	}

	stats := aggregate(links)

	if accountID == nil {
		byAccount, err := s.aggregateByAccount(ctx, links)
		if err != nil {
			return nil, err
		}
		stats.ByAccount = byAccount
	}

	if s.cache != nil {
		s.cache.Set(ctx, accountID, stats)
	}
	return stats, nil
}

// InvalidateCache drops cached statistics after a write pass
func (s *StatsService) InvalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func aggregate(links []linking.MarketplaceLink) *linking.HierarchyStats {
	stats := &linking.HierarchyStats{ByStatus: linking.StatusCounts{}}
	for i := range links {
		link := &links[i]
		stats.Total++
		stats.ByStatus[link.Status]++
		switch {
		case link.IsProductLevel():
			stats.ProductLinks++
		case link.ParentLinkID != nil:
			stats.VariantLinks++
			stats.HierarchicalLinks++
		default:
			stats.VariantLinks++
			stats.OrphanedVariants++
		}
	}
	stats.HierarchyCompletionPct = linking.CompletionPct(stats.HierarchicalLinks, stats.VariantLinks)
	return stats
}

func (s *StatsService) aggregateByAccount(ctx context.Context, links []linking.MarketplaceLink) ([]linking.AccountStats, error) {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]linking.MarketplaceLink)
	for i := range links {
		grouped[links[i].AccountID] = append(grouped[links[i].AccountID], links[i])
	}

	var result []linking.AccountStats
	for i := range accounts {
		account := &accounts[i]
		accountLinks, ok := grouped[account.ID]
		if !ok {
			continue
		}
		sub := aggregate(accountLinks)
		result = append(result, linking.AccountStats{
			AccountID:              account.ID,
			AccountName:            account.Name,
			Channel:                account.Channel,
			Total:                  sub.Total,
			ProductLinks:           sub.ProductLinks,
			VariantLinks:           sub.VariantLinks,
			HierarchicalLinks:      sub.HierarchicalLinks,
			OrphanedVariants:       sub.OrphanedVariants,
			ByStatus:               sub.ByStatus,
			HierarchyCompletionPct: sub.HierarchyCompletionPct,
		})
	}
	return result, nil
}
