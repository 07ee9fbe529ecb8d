package models

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FileModel is the persistence model for the FileRecord domain entity.
type FileModel struct {
	BaseModel
	Name             string           `gorm:"type:varchar(255);not null"`
	MimeType         string           `gorm:"type:varchar(255)"`
	SizeBytes        int64            `gorm:"not null;default:0"`
	StorageKey       string           `gorm:"type:varchar(1024)"`
	CurrentOwnerID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	OriginalOwnerID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_files_original_owner_day,priority:1"`
	Source           analytics.Source `gorm:"type:varchar(16);not null"`
	OriginalFileID   *uuid.UUID       `gorm:"type:uuid;index"`
	UploadedDay      time.Time        `gorm:"type:date;not null;index:idx_files_original_owner_day,priority:2"`
	TotalViews       int64            `gorm:"not null;default:0;check:total_views >= 0"`
	ReferralEarnings decimal.Decimal  `gorm:"type:numeric(20,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (FileModel) TableName() string {
	return "files"
}

// ToDomain converts the persistence model to a domain FileRecord.
func (m *FileModel) ToDomain() *analytics.FileRecord {
	return &analytics.FileRecord{
		BaseEntity:       m.BaseModel.ToDomain(),
		Name:             m.Name,
		MimeType:         m.MimeType,
		SizeBytes:        m.SizeBytes,
		StorageKey:       m.StorageKey,
		CurrentOwnerID:   m.CurrentOwnerID,
		OriginalOwnerID:  m.OriginalOwnerID,
		Source:           m.Source,
		OriginalFileID:   m.OriginalFileID,
		UploadedDay:      analytics.DayOf(m.UploadedDay),
		TotalViews:       m.TotalViews,
		ReferralEarnings: m.ReferralEarnings,
	}
}

// FileModelFromDomain creates a new persistence model from a domain FileRecord.
func FileModelFromDomain(f *analytics.FileRecord) *FileModel {
	m := &FileModel{
		Name:             f.Name,
		MimeType:         f.MimeType,
		SizeBytes:        f.SizeBytes,
		StorageKey:       f.StorageKey,
		CurrentOwnerID:   f.CurrentOwnerID,
		OriginalOwnerID:  f.OriginalOwnerID,
		Source:           f.Source,
		OriginalFileID:   f.OriginalFileID,
		UploadedDay:      analytics.DayOf(f.UploadedDay),
		TotalViews:       f.TotalViews,
		ReferralEarnings: f.ReferralEarnings,
	}
	m.FromDomainBaseEntity(f.BaseEntity)
	return m
}

// DailyAnalyticsModel is the persistence model for DailyAnalyticsEntry.
// (file_id, user_id, day) is unique and is the upsert conflict target.
type DailyAnalyticsModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	FileID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_daily_analytics_key,priority:1"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_daily_analytics_key,priority:2;index:idx_daily_analytics_user_day,priority:1"`
	Day              time.Time       `gorm:"type:date;not null;uniqueIndex:uq_daily_analytics_key,priority:3;index:idx_daily_analytics_user_day,priority:2"`
	Views            int64           `gorm:"not null;default:0;check:views >= 0"`
	Earnings         decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0"`
	ReferralEarnings decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DailyAnalyticsModel) TableName() string {
	return "daily_analytics"
}

// ToDomain converts the persistence model to a domain DailyAnalyticsEntry.
func (m *DailyAnalyticsModel) ToDomain() *analytics.DailyAnalyticsEntry {
	return &analytics.DailyAnalyticsEntry{
		ID:               m.ID,
		FileID:           m.FileID,
		UserID:           m.UserID,
		Day:              analytics.DayOf(m.Day),
		Views:            m.Views,
		Earnings:         m.Earnings,
		ReferralEarnings: m.ReferralEarnings,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

// NewDailyAnalyticsModel builds the row inserted when key has no entry yet
func NewDailyAnalyticsModel(key analytics.EntryKey, views int64, earnings, referral decimal.Decimal, now time.Time) *DailyAnalyticsModel {
	return &DailyAnalyticsModel{
		ID:               uuid.New(),
		FileID:           key.FileID,
		UserID:           key.UserID,
		Day:              analytics.DayOf(key.Day),
		Views:            views,
		Earnings:         earnings,
		ReferralEarnings: referral,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ViewEventModel stores caller-supplied view ids
type ViewEventModel struct {
	EventID   string    `gorm:"type:varchar(128);primaryKey"`
	FileID    uuid.UUID `gorm:"type:uuid;not null"`
	ViewerID  uuid.UUID `gorm:"type:uuid;not null"`
	Day       time.Time `gorm:"type:date;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ViewEventModel) TableName() string {
	return "view_events"
}

// ToDomain converts the persistence model to a domain ViewEvent.
func (m *ViewEventModel) ToDomain() *analytics.ViewEvent {
	return &analytics.ViewEvent{
		EventID:   m.EventID,
		FileID:    m.FileID,
		ViewerID:  m.ViewerID,
		Day:       analytics.DayOf(m.Day),
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// ViewEventModelFromDomain creates a new persistence model from a domain ViewEvent.
func ViewEventModelFromDomain(e *analytics.ViewEvent) *ViewEventModel {
	return &ViewEventModel{
		EventID:   e.EventID,
		FileID:    e.FileID,
		ViewerID:  e.ViewerID,
		Day:       analytics.DayOf(e.Day),
		CreatedAt: e.CreatedAt,
	}
}
