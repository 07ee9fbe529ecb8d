package dto

import (
	"time"

	appanalytics "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordViewRequest is the body of POST /analytics/views. The viewer is the
// authenticated user.
type RecordViewRequest struct {
	FileID  string `json:"file_id" binding:"required,uuid"`
	EventID string `json:"event_id" binding:"omitempty,max=128"`
}

// DayQuery selects a UTC day; empty means today
type DayQuery struct {
	Date string `form:"date" binding:"omitempty"`
}

// MonthQuery selects a UTC month; empty means the current month
type MonthQuery struct {
	Month string `form:"month" binding:"omitempty"`
}

// AnalyticsEntryResponse is one (file, user, day) ledger row
type AnalyticsEntryResponse struct {
	FileID           uuid.UUID       `json:"file_id"`
	UserID           uuid.UUID       `json:"user_id"`
	Date             string          `json:"date"`
	Views            int64           `json:"views"`
	Earnings         decimal.Decimal `json:"earnings"`
	ReferralEarnings decimal.Decimal `json:"referral_earnings"`
}

// RecordViewResponse is the ledger state after a view
type RecordViewResponse struct {
	Entry         AnalyticsEntryResponse `json:"entry"`
	BeneficiaryID uuid.UUID              `json:"beneficiary_id"`
	Duplicate     bool                   `json:"duplicate"`
	Referral      string                 `json:"referral"`
}

// DailyTotalsResponse sums one user's day
type DailyTotalsResponse struct {
	Date                  string          `json:"date"`
	TotalViews            int64           `json:"total_views"`
	TotalEarnings         decimal.Decimal `json:"total_earnings"`
	TotalReferralEarnings decimal.Decimal `json:"total_referral_earnings"`
	TotalFilesUploaded    int64           `json:"total_files_uploaded"`
}

// DayBreakdownResponse is one day of a month listing
type DayBreakdownResponse struct {
	Date             string          `json:"date"`
	Views            int64           `json:"views"`
	Earnings         decimal.Decimal `json:"earnings"`
	ReferralEarnings decimal.Decimal `json:"referral_earnings"`
	Uploads          int64           `json:"uploads"`
}

// MonthlyAggregateResponse sums one user's month
type MonthlyAggregateResponse struct {
	Month            string          `json:"month"`
	Views            int64           `json:"views"`
	Earnings         decimal.Decimal `json:"earnings"`
	ReferralEarnings decimal.Decimal `json:"referral_earnings"`
	Uploads          int64           `json:"uploads"`
}

// ToAnalyticsEntryResponse converts a ledger row
func ToAnalyticsEntryResponse(e *analytics.DailyAnalyticsEntry) AnalyticsEntryResponse {
	return AnalyticsEntryResponse{
		FileID:           e.FileID,
		UserID:           e.UserID,
		Date:             formatDay(e.Day),
		Views:            e.Views,
		Earnings:         e.Earnings,
		ReferralEarnings: e.ReferralEarnings,
	}
}

// ToRecordViewResponse converts the result of a recorded view
func ToRecordViewResponse(r *appanalytics.RecordViewResult) RecordViewResponse {
	return RecordViewResponse{
		Entry:         ToAnalyticsEntryResponse(r.Entry),
		BeneficiaryID: r.BeneficiaryID,
		Duplicate:     r.Duplicate,
		Referral:      referralLabel(r.Referral),
	}
}

// ToDailyTotalsResponse converts daily totals
func ToDailyTotalsResponse(t *analytics.DailyTotals) DailyTotalsResponse {
	return DailyTotalsResponse{
		Date:                  formatDay(t.Date),
		TotalViews:            t.TotalViews,
		TotalEarnings:         t.TotalEarnings,
		TotalReferralEarnings: t.TotalReferralEarnings,
		TotalFilesUploaded:    t.TotalFilesUploaded,
	}
}

// ToDayBreakdownResponses converts a month listing
func ToDayBreakdownResponses(days []analytics.DayBreakdown) []DayBreakdownResponse {
	out := make([]DayBreakdownResponse, len(days))
	for i, d := range days {
		out[i] = DayBreakdownResponse{
			Date:             formatDay(d.Date),
			Views:            d.Views,
			Earnings:         d.Earnings,
			ReferralEarnings: d.ReferralEarnings,
			Uploads:          d.Uploads,
		}
	}
	return out
}

// ToMonthlyAggregateResponse converts month totals
func ToMonthlyAggregateResponse(m *analytics.MonthlyAggregate) MonthlyAggregateResponse {
	return MonthlyAggregateResponse{
		Month:            m.Month.UTC().Format(analytics.MonthLayout),
		Views:            m.Views,
		Earnings:         m.Earnings,
		ReferralEarnings: m.ReferralEarnings,
		Uploads:          m.Uploads,
	}
}

// referralLabel is "credited", "skipped" or "failed"
func referralLabel(o shared.Outcome) string {
	switch {
	case o.Severity != shared.SeverityNone:
		return "failed"
	case o.Done:
		return "credited"
	default:
		return "skipped"
	}
}

func formatDay(t time.Time) string {
	return t.UTC().Format(analytics.DayLayout)
}
