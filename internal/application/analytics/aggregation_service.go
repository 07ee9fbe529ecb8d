package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultClosedPeriodGrace is how long after a period ends before its
// totals are considered final and cacheable. Views stamped just before
// midnight may still be committing right after it.
const DefaultClosedPeriodGrace = 10 * time.Minute

// AggregationCache stores encoded aggregation results for closed periods
type AggregationCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// AggregationOption configures an AggregationService
type AggregationOption func(*AggregationService)

// WithAggregationCache enables caching of closed-period results
func WithAggregationCache(cache AggregationCache) AggregationOption {
	return func(s *AggregationService) {
		s.cache = cache
	}
}

// WithAggregationClock overrides the clock used to decide which periods are closed
func WithAggregationClock(clock analytics.Clock) AggregationOption {
	return func(s *AggregationService) {
		s.clock = clock
	}
}

// WithClosedPeriodGrace overrides DefaultClosedPeriodGrace
func WithClosedPeriodGrace(grace time.Duration) AggregationOption {
	return func(s *AggregationService) {
		s.grace = grace
	}
}

// AggregationService answers the read-only analytics queries
type AggregationService struct {
	files   analytics.FileRepository
	entries analytics.DailyAnalyticsRepository
	cache   AggregationCache
	clock   analytics.Clock
	grace   time.Duration
	logger  *zap.Logger
}

// NewAggregationService creates a new AggregationService
func NewAggregationService(
	files analytics.FileRepository,
	entries analytics.DailyAnalyticsRepository,
	logger *zap.Logger,
	opts ...AggregationOption,
) *AggregationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AggregationService{
		files:   files,
		entries: entries,
		clock:   analytics.SystemClock,
		grace:   DefaultClosedPeriodGrace,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DailyTotals sums userID's activity on the day containing day
func (s *AggregationService) DailyTotals(ctx context.Context, userID uuid.UUID, day time.Time) (*analytics.DailyTotals, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "user id is required")
	}
	period := analytics.DayPeriod(day)
	key := cacheKey("daily", userID, period.Start.Format(analytics.DayLayout))

	return cached(ctx, s, key, period, func() (*analytics.DailyTotals, error) {
		sum, err := s.entries.SumByUser(ctx, userID, period)
		if err != nil {
			return nil, fmt.Errorf("sum daily analytics: %w", err)
		}
		uploads, err := s.files.CountUploads(ctx, userID, period)
		if err != nil {
			return nil, fmt.Errorf("count uploads: %w", err)
		}
		return &analytics.DailyTotals{
			Date:                  period.Start,
			TotalViews:            sum.Views,
			TotalEarnings:         sum.Earnings,
			TotalReferralEarnings: sum.ReferralEarnings,
			TotalFilesUploaded:    uploads,
		}, nil
	})
}

// MonthlyTotals returns one row per calendar day of the month containing
// month; days without activity are zero.
func (s *AggregationService) MonthlyTotals(ctx context.Context, userID uuid.UUID, month time.Time) ([]analytics.DayBreakdown, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "user id is required")
	}
	period := analytics.MonthPeriod(month)
	key := cacheKey("monthly", userID, period.Start.Format(analytics.MonthLayout))

	return cached(ctx, s, key, period, func() ([]analytics.DayBreakdown, error) {
		sums, err := s.entries.SumByUserPerDay(ctx, userID, period)
		if err != nil {
			return nil, fmt.Errorf("sum monthly analytics: %w", err)
		}
		uploads, err := s.files.CountUploadsPerDay(ctx, userID, period)
		if err != nil {
			return nil, fmt.Errorf("count uploads per day: %w", err)
		}
		return analytics.BuildMonthBreakdown(period.Start, sums, uploads), nil
	})
}

// MonthlyAggregateTotals sums userID's activity over the month containing month
func (s *AggregationService) MonthlyAggregateTotals(ctx context.Context, userID uuid.UUID, month time.Time) (*analytics.MonthlyAggregate, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "user id is required")
	}
	period := analytics.MonthPeriod(month)
	key := cacheKey("monthly-aggregate", userID, period.Start.Format(analytics.MonthLayout))

	return cached(ctx, s, key, period, func() (*analytics.MonthlyAggregate, error) {
		sum, err := s.entries.SumByUser(ctx, userID, period)
		if err != nil {
			return nil, fmt.Errorf("sum monthly analytics: %w", err)
		}
		uploads, err := s.files.CountUploads(ctx, userID, period)
		if err != nil {
			return nil, fmt.Errorf("count uploads: %w", err)
		}
		return &analytics.MonthlyAggregate{
			Month:            period.Start,
			Views:            sum.Views,
			Earnings:         sum.Earnings,
			ReferralEarnings: sum.ReferralEarnings,
			Uploads:          uploads,
		}, nil
	})
}

// FileDayAnalytics returns userID's entry for fileID on day, or a zero entry
// when there was no activity. The file itself must exist.
func (s *AggregationService) FileDayAnalytics(ctx context.Context, fileID, userID uuid.UUID, day time.Time) (*analytics.DailyAnalyticsEntry, error) {
	if fileID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "file id and user id are required")
	}
	if _, err := s.files.FindByID(ctx, fileID); err != nil {
		return nil, err
	}
	key := analytics.NewEntryKey(fileID, userID, day)
	entry, err := s.entries.FindByKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return analytics.EmptyEntry(key), nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// cached serves closed periods from the cache and computes open ones.
// Cache failures degrade to computing the result.
func cached[T any](ctx context.Context, s *AggregationService, key string, period analytics.Period, compute func() (T, error)) (T, error) {
	closed := s.cache != nil && period.ClosedAt(s.clock().Add(-s.grace))
	if closed {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("aggregation cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			var out T
			if err := json.Unmarshal(raw, &out); err == nil {
				return out, nil
			}
			s.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		}
	}

	out, err := compute()
	if err != nil || !closed {
		return out, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		s.logger.Warn("aggregation result not cacheable", zap.String("key", key), zap.Error(err))
		return out, nil
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.logger.Warn("aggregation cache write failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

func cacheKey(kind string, userID uuid.UUID, period string) string {
	return "analytics:" + kind + ":" + userID.String() + ":" + period
}
