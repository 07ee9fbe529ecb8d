package persistence

import (
	"context"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var entryKeyColumns = []clause.Column{{Name: "file_id"}, {Name: "user_id"}, {Name: "day"}}

// GormDailyAnalyticsRepository implements analytics.DailyAnalyticsRepository using GORM.
// Mutations are INSERT ... ON CONFLICT DO UPDATE statements so concurrent
// views of the same key never lose an increment.
type GormDailyAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormDailyAnalyticsRepository creates a new GormDailyAnalyticsRepository
func NewGormDailyAnalyticsRepository(db *gorm.DB) *GormDailyAnalyticsRepository {
	return &GormDailyAnalyticsRepository{db: db}
}

// IncrementView adds one view and earnings to the entry for key
func (r *GormDailyAnalyticsRepository) IncrementView(ctx context.Context, key analytics.EntryKey, earnings decimal.Decimal) (*analytics.DailyAnalyticsEntry, error) {
	now := time.Now().UTC()
	row := models.NewDailyAnalyticsModel(key, 1, earnings, decimal.Zero, now)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: entryKeyColumns,
		DoUpdates: clause.Assignments(map[string]any{
			"views":      gorm.Expr("daily_analytics.views + ?", 1),
			"earnings":   gorm.Expr("daily_analytics.earnings + ?", earnings),
			"updated_at": now,
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.FindByKey(ctx, key)
}

// AddReferralEarnings adds amount to the entry's referral earnings. A new
// entry starts with zero views and earnings.
func (r *GormDailyAnalyticsRepository) AddReferralEarnings(ctx context.Context, key analytics.EntryKey, amount decimal.Decimal) (*analytics.DailyAnalyticsEntry, error) {
	now := time.Now().UTC()
	row := models.NewDailyAnalyticsModel(key, 0, decimal.Zero, amount, now)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: entryKeyColumns,
		DoUpdates: clause.Assignments(map[string]any{
			"referral_earnings": gorm.Expr("daily_analytics.referral_earnings + ?", amount),
			"updated_at":        now,
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.FindByKey(ctx, key)
}

// Seed inserts a zero entry for key unless one exists
func (r *GormDailyAnalyticsRepository) Seed(ctx context.Context, key analytics.EntryKey) error {
	row := models.NewDailyAnalyticsModel(key, 0, decimal.Zero, decimal.Zero, time.Now().UTC())
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: entryKeyColumns, DoNothing: true}).
		Create(row).Error
}

// FindByKey finds the entry for key
func (r *GormDailyAnalyticsRepository) FindByKey(ctx context.Context, key analytics.EntryKey) (*analytics.DailyAnalyticsEntry, error) {
	var model models.DailyAnalyticsModel
	err := r.db.WithContext(ctx).
		Where("file_id = ? AND user_id = ? AND day = ?", key.FileID, key.UserID, analytics.DayOf(key.Day)).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

type usageRow struct {
	Day              time.Time
	Views            int64
	Earnings         decimal.Decimal
	ReferralEarnings decimal.Decimal
}

func (row usageRow) sum() analytics.UsageSum {
	return analytics.UsageSum{
		Views:            row.Views,
		Earnings:         row.Earnings,
		ReferralEarnings: row.ReferralEarnings,
	}
}

const usageSelect = "COALESCE(SUM(views), 0) AS views, " +
	"COALESCE(SUM(earnings), 0) AS earnings, " +
	"COALESCE(SUM(referral_earnings), 0) AS referral_earnings"

// SumByUser totals the user's entries over period
func (r *GormDailyAnalyticsRepository) SumByUser(ctx context.Context, userID uuid.UUID, period analytics.Period) (analytics.UsageSum, error) {
	var row usageRow
	err := r.db.WithContext(ctx).Model(&models.DailyAnalyticsModel{}).
		Select(usageSelect).
		Where("user_id = ? AND day >= ? AND day < ?", userID, period.Start, period.End).
		Scan(&row).Error
	if err != nil {
		return analytics.UsageSum{}, err
	}
	return row.sum(), nil
}

// SumByUserPerDay totals the user's entries per day over period, skipping empty days
func (r *GormDailyAnalyticsRepository) SumByUserPerDay(ctx context.Context, userID uuid.UUID, period analytics.Period) ([]analytics.DaySum, error) {
	var rows []usageRow
	err := r.db.WithContext(ctx).Model(&models.DailyAnalyticsModel{}).
		Select("day, "+usageSelect).
		Where("user_id = ? AND day >= ? AND day < ?", userID, period.Start, period.End).
		Group("day").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]analytics.DaySum, len(rows))
	for i, row := range rows {
		out[i] = analytics.DaySum{Day: analytics.DayOf(row.Day), UsageSum: row.sum()}
	}
	return out, nil
}

var _ analytics.DailyAnalyticsRepository = (*GormDailyAnalyticsRepository)(nil)

// GormViewEventRepository implements analytics.ViewEventRepository using GORM
type GormViewEventRepository struct {
	db *gorm.DB
}

// NewGormViewEventRepository creates a new GormViewEventRepository
func NewGormViewEventRepository(db *gorm.DB) *GormViewEventRepository {
	return &GormViewEventRepository{db: db}
}

// Register inserts the event unless its id is already stored
func (r *GormViewEventRepository) Register(ctx context.Context, event *analytics.ViewEvent) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(models.ViewEventModelFromDomain(event))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FindByID finds a stored event by id
func (r *GormViewEventRepository) FindByID(ctx context.Context, eventID string) (*analytics.ViewEvent, error) {
	var model models.ViewEventModel
	if err := r.db.WithContext(ctx).First(&model, "event_id = ?", eventID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

var _ analytics.ViewEventRepository = (*GormViewEventRepository)(nil)
