package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campus-desk/complaints-api/pkg/config"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
)

type analyticsRepository interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
	CountByPriority(ctx context.Context) (map[string]int, error)
	EscalationBacklog(ctx context.Context, olderThan time.Time) (int, error)
}

type analyticsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

const analyticsSummaryKey = "analytics:summary"

// AnalyticsSummary aggregates dashboard counters.
type AnalyticsSummary struct {
	ByStatus          map[string]int `json:"by_status"`
	ByCategory        map[string]int `json:"by_category"`
	ByPriority        map[string]int `json:"by_priority"`
	EscalationBacklog int            `json:"escalation_backlog"`
	BacklogHours      int            `json:"backlog_hours"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

// AnalyticsService serves complaint statistics with Redis-backed caching.
type AnalyticsService struct {
	repo   analyticsRepository
	cache  analyticsCache
	cfg    config.AnalyticsConfig
	logger *zap.Logger
}

// NewAnalyticsService constructs the service. cache may be nil.
func NewAnalyticsService(repo analyticsRepository, cache analyticsCache, cfg config.AnalyticsConfig, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, cfg: cfg, logger: logger}
}

// Summary returns aggregate counts, cached for the configured TTL.
// backlogHours bounds the "aging and unescalated" count; zero means 24.
func (s *AnalyticsService) Summary(ctx context.Context, backlogHours int) (*AnalyticsSummary, error) {
	if backlogHours <= 0 {
		backlogHours = 24
	}

	if s.cache != nil {
		var cached AnalyticsSummary
		err := s.cache.Get(ctx, analyticsSummaryKey, &cached)
		if err == nil && cached.BacklogHours == backlogHours {
			return &cached, nil
		}
		if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Warnw("analytics cache read failed", "error", err)
		}
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate statuses")
	}
	byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate categories")
	}
	byPriority, err := s.repo.CountByPriority(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate priorities")
	}
	now := time.Now().UTC()
	backlog, err := s.repo.EscalationBacklog(ctx, now.Add(-time.Duration(backlogHours)*time.Hour))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute escalation backlog")
	}

	summary := &AnalyticsSummary{
		ByStatus:          byStatus,
		ByCategory:        byCategory,
		ByPriority:        byPriority,
		EscalationBacklog: backlog,
		BacklogHours:      backlogHours,
		GeneratedAt:       now,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, analyticsSummaryKey, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Sugar().Warnw("analytics cache write failed", "error", err)
		}
	}

	return summary, nil
}
