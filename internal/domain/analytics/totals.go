package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageSum is the summed activity of a user over a period
type UsageSum struct {
	Views            int64
	Earnings         decimal.Decimal
	ReferralEarnings decimal.Decimal
}

// DaySum is a UsageSum for a single day bucket
type DaySum struct {
	Day time.Time
	UsageSum
}

// DailyTotals is the rollup of one user's activity on one day
type DailyTotals struct {
	Date                  time.Time       `json:"date"`
	TotalViews            int64           `json:"totalViews"`
	TotalEarnings         decimal.Decimal `json:"totalEarnings"`
	TotalReferralEarnings decimal.Decimal `json:"totalReferralEarnings"`
	TotalFilesUploaded    int64           `json:"totalFilesUploaded"`
}

// DayBreakdown is one row of a monthly per-day report
type DayBreakdown struct {
	Date             time.Time       `json:"date"`
	Views            int64           `json:"views"`
	Earnings         decimal.Decimal `json:"earnings"`
	ReferralEarnings decimal.Decimal `json:"referralEarnings"`
	Uploads          int64           `json:"uploads"`
}

// MonthlyAggregate is the rollup of one user's activity over a month
type MonthlyAggregate struct {
	Month            time.Time       `json:"month"`
	Views            int64           `json:"views"`
	Earnings         decimal.Decimal `json:"earnings"`
	ReferralEarnings decimal.Decimal `json:"referralEarnings"`
	Uploads          int64           `json:"uploads"`
}

// BuildMonthBreakdown zero-fills every day of month, overlaying the sparse
// per-day sums and upload counts.
func BuildMonthBreakdown(month time.Time, sums []DaySum, uploads map[time.Time]int64) []DayBreakdown {
	byDay := make(map[time.Time]UsageSum, len(sums))
	for _, s := range sums {
		byDay[DayOf(s.Day)] = s.UsageSum
	}
	uploadsByDay := make(map[time.Time]int64, len(uploads))
	for day, n := range uploads {
		uploadsByDay[DayOf(day)] += n
	}

	days := DaysOf(month)
	out := make([]DayBreakdown, len(days))
	for i, day := range days {
		row := DayBreakdown{
			Date:             day,
			Earnings:         decimal.Zero,
			ReferralEarnings: decimal.Zero,
			Uploads:          uploadsByDay[day],
		}
		if s, ok := byDay[day]; ok {
			row.Views = s.Views
			row.Earnings = s.Earnings
			row.ReferralEarnings = s.ReferralEarnings
		}
		out[i] = row
	}
	return out
}
