package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FileRepository persists file records
type FileRepository interface {
	Create(ctx context.Context, file *FileRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*FileRecord, error)
	// IncrementTotalViews atomically adds delta to the lifetime view counter
	IncrementTotalViews(ctx context.Context, id uuid.UUID, delta int64) error
	// AddReferralEarnings atomically adds amount to the lifetime referral earnings
	AddReferralEarnings(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	// CountUploads counts files originally owned by ownerID uploaded within the period
	CountUploads(ctx context.Context, ownerID uuid.UUID, period Period) (int64, error)
	// CountUploadsPerDay is CountUploads broken down by upload day
	CountUploadsPerDay(ctx context.Context, ownerID uuid.UUID, period Period) (map[time.Time]int64, error)
}

// DailyAnalyticsRepository persists daily entries. Every mutation is an
// atomic upsert on the entry key; none of them reads before writing.
type DailyAnalyticsRepository interface {
	// IncrementView adds one view and earnings to the entry, creating it if absent
	IncrementView(ctx context.Context, key EntryKey, earnings decimal.Decimal) (*DailyAnalyticsEntry, error)
	// AddReferralEarnings adds amount to the entry's referral earnings, creating it if absent
	AddReferralEarnings(ctx context.Context, key EntryKey, amount decimal.Decimal) (*DailyAnalyticsEntry, error)
	// Seed creates a zero entry if none exists
	Seed(ctx context.Context, key EntryKey) error
	FindByKey(ctx context.Context, key EntryKey) (*DailyAnalyticsEntry, error)
	SumByUser(ctx context.Context, userID uuid.UUID, period Period) (UsageSum, error)
	SumByUserPerDay(ctx context.Context, userID uuid.UUID, period Period) ([]DaySum, error)
}

// ViewEventRepository stores view idempotency keys
type ViewEventRepository interface {
	// Register stores the event and reports whether it was new
	Register(ctx context.Context, event *ViewEvent) (bool, error)
	FindByID(ctx context.Context, eventID string) (*ViewEvent, error)
}
