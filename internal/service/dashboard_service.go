package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mcu-dashboard-api/internal/dto"
	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
)

const dashboardCacheKey = "dash:mcu:summary"

type dashboardStatsRepository interface {
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
	TopDiagnoses(ctx context.Context, limit int) ([]models.DiagnosisCount, error)
	Ages(ctx context.Context) ([]int, error)
	YearlyTrend(ctx context.Context) ([]models.YearCount, error)
	MonthlyTrend(ctx context.Context, year int) ([]models.MonthCount, error)
}

type statusRefresher interface {
	RefreshStatuses(ctx context.Context) (int, error)
}

type reminderSweeper interface {
	Sweep(ctx context.Context) (int, error)
	Enabled() bool
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL          time.Duration
	TopDiagnosesLimit int
	RefreshOnSummary  bool
	SweepOnSummary    bool
}

// DashboardService composes the aggregate MCU dashboard payload with a
// cache-aside strategy. Statuses drift with the calendar, so the summary can
// optionally re-derive them before aggregating.
type DashboardService struct {
	stats     dashboardStatsRepository
	refresher statusRefresher
	sweeper   reminderSweeper
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(stats dashboardStatsRepository, refresher statusRefresher, sweeper reminderSweeper, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.TopDiagnosesLimit <= 0 {
		cfg.TopDiagnosesLimit = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		stats:     stats,
		refresher: refresher,
		sweeper:   sweeper,
		metrics:   metrics,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Summary returns the dashboard payload and whether it came from cache.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, bool, error) {
	if s.cache.Enabled() {
		var cached dto.DashboardSummaryResponse
		hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	if s.cfg.RefreshOnSummary && s.refresher != nil {
		if updated, err := s.refresher.RefreshStatuses(ctx); err != nil {
			s.logger.Warn("status refresh before summary failed", zap.Error(err))
		} else if updated > 0 {
			s.logger.Info("statuses refreshed", zap.Int("updated", updated))
		}
	}

	if s.cfg.SweepOnSummary && s.sweeper != nil && s.sweeper.Enabled() {
		if sent, err := s.sweeper.Sweep(ctx); err != nil {
			s.logger.Warn("reminder sweep on summary failed", zap.Error(err))
		} else if sent > 0 {
			s.logger.Info("expiry reminders sent", zap.Int("sent", sent))
		}
	}

	summary, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return summary, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	start := time.Now()
	counts, err := s.stats.CountByStatus(ctx)
	s.metrics.ObserveDBQuery("dashboard_status_counts", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load status counters")
	}
	counters := dto.DashboardCounters{}
	for _, c := range counts {
		counters.Total += c.Count
		switch c.Status {
		case mcu.StatusActive:
			counters.Active = c.Count
		case mcu.StatusWillExpire:
			counters.WillExpire = c.Count
		case mcu.StatusExpired:
			counters.Expired = c.Count
		case mcu.StatusNoMCU:
			counters.NoMCU = c.Count
		}
	}

	start = time.Now()
	diagnoses, err := s.stats.TopDiagnoses(ctx, s.cfg.TopDiagnosesLimit)
	s.metrics.ObserveDBQuery("dashboard_top_diagnoses", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load diagnoses")
	}

	start = time.Now()
	ages, err := s.stats.Ages(ctx)
	s.metrics.ObserveDBQuery("dashboard_ages", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ages")
	}

	start = time.Now()
	yearly, err := s.stats.YearlyTrend(ctx)
	s.metrics.ObserveDBQuery("dashboard_yearly_trend", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load yearly trend")
	}

	trendYear := s.now().Year()
	start = time.Now()
	monthly, err := s.stats.MonthlyTrend(ctx, trendYear)
	s.metrics.ObserveDBQuery("dashboard_monthly_trend", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load monthly trend")
	}

	return &dto.DashboardSummaryResponse{
		Counters:     counters,
		TopDiagnoses: diagnoses,
		AgeHistogram: buildAgeHistogram(ages),
		YearlyTrend:  yearly,
		MonthlyTrend: monthly,
		TrendYear:    trendYear,
	}, nil
}

// buildAgeHistogram groups ages into fixed decade buckets. Buckets are
// always present so chart axes stay stable regardless of the data.
func buildAgeHistogram(ages []int) []dto.AgeBucket {
	buckets := []dto.AgeBucket{
		{Label: "<20"},
		{Label: "20-29"},
		{Label: "30-39"},
		{Label: "40-49"},
		{Label: "50-59"},
		{Label: "60+"},
	}
	for _, age := range ages {
		switch {
		case age < 20:
			buckets[0].Count++
		case age < 30:
			buckets[1].Count++
		case age < 40:
			buckets[2].Count++
		case age < 50:
			buckets[3].Count++
		case age < 60:
			buckets[4].Count++
		default:
			buckets[5].Count++
		}
	}
	return buckets
}
