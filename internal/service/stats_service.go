package service

import (
	"context"
	"fmt"
	"time"

	domain "lecture-manager/internal/domain/registration"
	interfaces "lecture-manager/internal/interfaces/infrastructure"
	serviceInterfaces "lecture-manager/internal/interfaces/service"
	"lecture-manager/pkg/logger"
)

const (
	SessionStatsKey = "stats:sessions"
	FullSessionsKey = "stats:full-sessions"
	StudentStatsKey = "stats:students"
)

var _ serviceInterfaces.StatsService = (*StatsService)(nil)

// StatsService serves the read-only reports, optionally through an advisory
// cache. A cache failure never fails the request.
type StatsService struct {
	statsRepo interfaces.StatsRepository
	cache     interfaces.StatsCache
	ttl       time.Duration
}

// NewStatsService creates a stats service. cache may be nil.
func NewStatsService(statsRepo interfaces.StatsRepository, cache interfaces.StatsCache, ttl time.Duration) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		cache:     cache,
		ttl:       ttl,
	}
}

func (s *StatsService) SessionStats(ctx context.Context) ([]domain.SessionStat, error) {
	return cached(ctx, s, SessionStatsKey, s.statsRepo.SessionStats)
}

func (s *StatsService) FullSessions(ctx context.Context) ([]domain.FullSession, error) {
	return cached(ctx, s, FullSessionsKey, s.statsRepo.FullSessions)
}

func (s *StatsService) StudentStats(ctx context.Context) ([]domain.StudentStat, error) {
	stats, err := cached(ctx, s, StudentStatsKey, s.statsRepo.StudentStats)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		if stats[i].Sessions == nil {
			stats[i].Sessions = []domain.StudentStatSession{}
		}
	}
	return stats, nil
}

func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, SessionStatsKey, FullSessionsKey, StudentStatsKey); err != nil {
		logger.Warn("Failed to invalidate stats cache: %v", err)
	}
}

func cached[T any](ctx context.Context, s *StatsService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var hit []T
		found, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			logger.Warn("Stats cache read for %s failed: %v", key, err)
		} else if found {
			logger.Debug("Stats cache hit for %s", key)
			if hit == nil {
				hit = []T{}
			}
			return hit, nil
		}
	}

	result, err := load(ctx)
	if err != nil {
		logger.Error("Failed to load %s: %v", key, err)
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if result == nil {
		result = []T{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			logger.Warn("Stats cache write for %s failed: %v", key, err)
		}
	}
	return result, nil
}
