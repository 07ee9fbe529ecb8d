package handler

import (
	"context"
	"time"

	appanalytics "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ViewRecorder records one view into the ledger
type ViewRecorder interface {
	RecordView(ctx context.Context, input appanalytics.RecordViewInput) (*appanalytics.RecordViewResult, error)
}

// AnalyticsQueries are the read-only aggregations over the ledger
type AnalyticsQueries interface {
	DailyTotals(ctx context.Context, userID uuid.UUID, day time.Time) (*analytics.DailyTotals, error)
	MonthlyTotals(ctx context.Context, userID uuid.UUID, month time.Time) ([]analytics.DayBreakdown, error)
	MonthlyAggregateTotals(ctx context.Context, userID uuid.UUID, month time.Time) (*analytics.MonthlyAggregate, error)
	FileDayAnalytics(ctx context.Context, fileID, userID uuid.UUID, day time.Time) (*analytics.DailyAnalyticsEntry, error)
}

// AnalyticsHandler serves view recording and the earnings reports
type AnalyticsHandler struct {
	BaseHandler
	ledger  ViewRecorder
	queries AnalyticsQueries
	now     func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(ledger ViewRecorder, queries AnalyticsQueries) *AnalyticsHandler {
	return &AnalyticsHandler{
		ledger:  ledger,
		queries: queries,
		now:     analytics.SystemClock,
	}
}

// RecordView godoc
// @ID           recordView
// @Summary      Record a file view
// @Description  Credits one view to the file's beneficiary for the current UTC day. Replaying an event_id applies nothing.
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Param        request body dto.RecordViewRequest true "View"
// @Success      200 {object} APIResponse[dto.RecordViewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/views [post]
func (h *AnalyticsHandler) RecordView(c *gin.Context) {
	viewerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req dto.RecordViewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.ledger.RecordView(c.Request.Context(), appanalytics.RecordViewInput{
		FileID:   uuid.MustParse(req.FileID),
		ViewerID: viewerID,
		EventID:  req.EventID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToRecordViewResponse(result))
}

// DailyTotals godoc
// @ID           getDailyTotals
// @Summary      Earnings for one day
// @Description  Sums the caller's views, earnings, referral earnings and uploads for a UTC day
// @Tags         analytics
// @Produce      json
// @Param        date query string false "Day as YYYY-MM-DD, default today"
// @Success      200 {object} APIResponse[dto.DailyTotalsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/daily [get]
func (h *AnalyticsHandler) DailyTotals(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	day, ok := h.queryDay(c, h.now)
	if !ok {
		return
	}

	totals, err := h.queries.DailyTotals(c.Request.Context(), userID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToDailyTotalsResponse(totals))
}

// MonthlyTotals godoc
// @ID           getMonthlyTotals
// @Summary      Day-by-day earnings for a month
// @Description  Lists every day of the UTC month, zero-filled
// @Tags         analytics
// @Produce      json
// @Param        month query string false "Month as YYYY-MM, default this month"
// @Success      200 {object} APIResponse[[]dto.DayBreakdownResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/monthly [get]
func (h *AnalyticsHandler) MonthlyTotals(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	month, ok := h.queryMonth(c, h.now)
	if !ok {
		return
	}

	days, err := h.queries.MonthlyTotals(c.Request.Context(), userID, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToDayBreakdownResponses(days))
}

// MonthlyAggregateTotals godoc
// @ID           getMonthlyAggregateTotals
// @Summary      Earnings summed over a month
// @Tags         analytics
// @Produce      json
// @Param        month query string false "Month as YYYY-MM, default this month"
// @Success      200 {object} APIResponse[dto.MonthlyAggregateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/monthly/totals [get]
func (h *AnalyticsHandler) MonthlyAggregateTotals(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	month, ok := h.queryMonth(c, h.now)
	if !ok {
		return
	}

	totals, err := h.queries.MonthlyAggregateTotals(c.Request.Context(), userID, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToMonthlyAggregateResponse(totals))
}

// FileDayAnalytics godoc
// @ID           getFileDayAnalytics
// @Summary      One file's ledger row for a day
// @Description  Returns the caller's row for the file and day, or a zero row when nothing was recorded
// @Tags         analytics
// @Produce      json
// @Param        id path string true "File ID" format(uuid)
// @Param        date query string false "Day as YYYY-MM-DD, default today"
// @Success      200 {object} APIResponse[dto.AnalyticsEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Failure      404 {object} ErrorResponse
// @Router       /analytics/files/{id}/daily [get]
func (h *AnalyticsHandler) FileDayAnalytics(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	fileID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	day, ok := h.queryDay(c, h.now)
	if !ok {
		return
	}

	entry, err := h.queries.FileDayAnalytics(c.Request.Context(), fileID, userID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToAnalyticsEntryResponse(entry))
}
