package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKey identifies a DailyAnalyticsEntry. Day must be a bucket from DayOf.
type EntryKey struct {
	FileID uuid.UUID
	UserID uuid.UUID
	Day    time.Time
}

// NewEntryKey builds a key, bucketing at into its day
func NewEntryKey(fileID, userID uuid.UUID, at time.Time) EntryKey {
	return EntryKey{FileID: fileID, UserID: userID, Day: DayOf(at)}
}

// DailyAnalyticsEntry counts one user's views of one file on one day.
// Views only grow within a day and past days are never rewritten.
type DailyAnalyticsEntry struct {
	ID               uuid.UUID
	FileID           uuid.UUID
	UserID           uuid.UUID
	Day              time.Time
	Views            int64
	Earnings         decimal.Decimal
	ReferralEarnings decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Key returns the entry's unique key
func (e *DailyAnalyticsEntry) Key() EntryKey {
	return EntryKey{FileID: e.FileID, UserID: e.UserID, Day: e.Day}
}

// EmptyEntry is the zero-valued entry reported for a key with no activity
func EmptyEntry(key EntryKey) *DailyAnalyticsEntry {
	return &DailyAnalyticsEntry{
		FileID:           key.FileID,
		UserID:           key.UserID,
		Day:              DayOf(key.Day),
		Earnings:         decimal.Zero,
		ReferralEarnings: decimal.Zero,
	}
}

// ViewEvent records a caller-supplied view id so a replayed request applies nothing
type ViewEvent struct {
	EventID   string
	FileID    uuid.UUID
	ViewerID  uuid.UUID
	Day       time.Time
	CreatedAt time.Time
}

// Matches reports whether the stored event describes the same view
func (v *ViewEvent) Matches(fileID, viewerID uuid.UUID) bool {
	return v.FileID == fileID && v.ViewerID == viewerID
}
