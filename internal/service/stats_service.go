package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/techassist/support-service/internal/domain"
	"github.com/techassist/support-service/internal/repository"
	apperrors "github.com/techassist/support-service/pkg/util"
)

const statsCacheKey = "stats:global"

// Stats is the aggregate snapshot served by the stats endpoint. MyTickets is
// populated only for cliente callers.
type Stats struct {
	TotalUsers        int64            `json:"total_users"`
	TotalTickets      int64            `json:"total_tickets"`
	TicketsByStatus   map[string]int64 `json:"tickets_by_status"`
	TicketsByPriority map[string]int64 `json:"tickets_by_priority"`
	MyTickets         *int64           `json:"my_tickets,omitempty"`
}

// StatsService composes independent count queries into a snapshot. The
// role-independent portion is cached in Redis for a short TTL; cache
// failures fall through to the database.
type StatsService struct {
	stats    repository.StatsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatsService builds the service. cache may be nil.
func NewStatsService(stats repository.StatsRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{stats: stats, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Snapshot returns aggregate statistics for the requester. Queries run
// independently; the result is a point-in-time approximation.
func (s *StatsService) Snapshot(ctx context.Context, requester *domain.User) (*Stats, error) {
	stats, err := s.globalStats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if requester.Role == domain.RoleCliente {
		mine, err := s.stats.CountTicketsByOwner(ctx, requester.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		stats.MyTickets = &mine
	}
	return stats, nil
}

func (s *StatsService) globalStats(ctx context.Context) (*Stats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	var stats Stats
	var err error

	if stats.TotalUsers, err = s.stats.CountUsers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalTickets, err = s.stats.CountTickets(ctx); err != nil {
		return nil, err
	}
	if stats.TicketsByStatus, err = s.stats.CountTicketsByStatus(ctx); err != nil {
		return nil, err
	}
	if stats.TicketsByPriority, err = s.stats.CountTicketsByPriority(ctx); err != nil {
		return nil, err
	}

	s.toCache(ctx, &stats)
	return &stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) *Stats {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, stats *Stats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
