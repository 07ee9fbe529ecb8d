package persistence

import (
	"context"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFileRepository implements analytics.FileRepository using GORM
type GormFileRepository struct {
	db *gorm.DB
}

// NewGormFileRepository creates a new GormFileRepository
func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

// Create inserts a new file
func (r *GormFileRepository) Create(ctx context.Context, file *analytics.FileRecord) error {
	return translateError(r.db.WithContext(ctx).Create(models.FileModelFromDomain(file)).Error)
}

// FindByID finds a file by its ID
func (r *GormFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*analytics.FileRecord, error) {
	var model models.FileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// IncrementTotalViews adds delta to total_views in a single statement
func (r *GormFileRepository) IncrementTotalViews(ctx context.Context, id uuid.UUID, delta int64) error {
	result := r.db.WithContext(ctx).Model(&models.FileModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"total_views": gorm.Expr("total_views + ?", delta),
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddReferralEarnings adds amount to referral_earnings in a single statement
func (r *GormFileRepository) AddReferralEarnings(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.FileModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"referral_earnings": gorm.Expr("referral_earnings + ?", amount),
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountUploads counts files originally owned by ownerID uploaded within period
func (r *GormFileRepository) CountUploads(ctx context.Context, ownerID uuid.UUID, period analytics.Period) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FileModel{}).
		Where("original_owner_id = ? AND uploaded_day >= ? AND uploaded_day < ?", ownerID, period.Start, period.End).
		Count(&count).Error
	return count, err
}

// CountUploadsPerDay is CountUploads grouped by upload day
func (r *GormFileRepository) CountUploadsPerDay(ctx context.Context, ownerID uuid.UUID, period analytics.Period) (map[time.Time]int64, error) {
	var rows []struct {
		UploadedDay time.Time
		Count       int64
	}
	err := r.db.WithContext(ctx).Model(&models.FileModel{}).
		Select("uploaded_day, COUNT(*) AS count").
		Where("original_owner_id = ? AND uploaded_day >= ? AND uploaded_day < ?", ownerID, period.Start, period.End).
		Group("uploaded_day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[time.Time]int64, len(rows))
	for _, row := range rows {
		out[analytics.DayOf(row.UploadedDay)] += row.Count
	}
	return out, nil
}

var _ analytics.FileRepository = (*GormFileRepository)(nil)
