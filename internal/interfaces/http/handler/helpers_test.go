package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	appanalytics "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/analytics"
	appidentity "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/identity"
	appwallet "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/auth"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// authAs simulates the JWT middleware for userID with roles
func authAs(userID uuid.UUID, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
			Roles:            roles,
		})
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

// do sends a request with an optional JSON body
func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the response envelope, leaving data raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error, rec.Body.String())
	return env.Error.Code
}

// MockLedger implements ViewRecorder and AnalyticsQueries
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RecordView(ctx context.Context, input appanalytics.RecordViewInput) (*appanalytics.RecordViewResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appanalytics.RecordViewResult), args.Error(1)
}

func (m *MockLedger) DailyTotals(ctx context.Context, userID uuid.UUID, day time.Time) (*analytics.DailyTotals, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DailyTotals), args.Error(1)
}

func (m *MockLedger) MonthlyTotals(ctx context.Context, userID uuid.UUID, month time.Time) ([]analytics.DayBreakdown, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.DayBreakdown), args.Error(1)
}

func (m *MockLedger) MonthlyAggregateTotals(ctx context.Context, userID uuid.UUID, month time.Time) (*analytics.MonthlyAggregate, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.MonthlyAggregate), args.Error(1)
}

func (m *MockLedger) FileDayAnalytics(ctx context.Context, fileID, userID uuid.UUID, day time.Time) (*analytics.DailyAnalyticsEntry, error) {
	args := m.Called(ctx, fileID, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DailyAnalyticsEntry), args.Error(1)
}

// MockFiles implements FileRegistry
type MockFiles struct {
	mock.Mock
}

func (m *MockFiles) RegisterFile(ctx context.Context, input appanalytics.RegisterFileInput) (*analytics.FileRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.FileRecord), args.Error(1)
}

func (m *MockFiles) CloneFile(ctx context.Context, fileID, newOwnerID uuid.UUID) (*analytics.FileRecord, error) {
	args := m.Called(ctx, fileID, newOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.FileRecord), args.Error(1)
}

func (m *MockFiles) GetFile(ctx context.Context, fileID uuid.UUID) (*analytics.FileRecord, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.FileRecord), args.Error(1)
}

// MockWallets implements WalletReader, Withdrawals, WithdrawalOperations and BalanceAdjuster
type MockWallets struct {
	mock.Mock
}

func (m *MockWallets) GetWallet(ctx context.Context, userID uuid.UUID) (*appwallet.WalletView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appwallet.WalletView), args.Error(1)
}

func (m *MockWallets) Adjust(ctx context.Context, op wallet.Operation, input appwallet.AdjustBalanceInput) (*appwallet.WalletView, error) {
	args := m.Called(ctx, op, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appwallet.WalletView), args.Error(1)
}

func (m *MockWallets) RequestWithdrawal(ctx context.Context, input appwallet.RequestWithdrawalInput) (*wallet.WalletTransaction, error) {
	return m.tx(m.Called(ctx, input))
}

func (m *MockWallets) ListByUser(ctx context.Context, input appwallet.ListWithdrawalsInput) (shared.Paginated[*wallet.WalletTransaction], error) {
	args := m.Called(ctx, input)
	return args.Get(0).(shared.Paginated[*wallet.WalletTransaction]), args.Error(1)
}

func (m *MockWallets) GetTransaction(ctx context.Context, requesterID uuid.UUID, isAdmin bool, txID uuid.UUID) (*wallet.WalletTransaction, error) {
	return m.tx(m.Called(ctx, requesterID, isAdmin, txID))
}

func (m *MockWallets) Approve(ctx context.Context, txID uuid.UUID) (*wallet.WalletTransaction, error) {
	return m.tx(m.Called(ctx, txID))
}

func (m *MockWallets) Cancel(ctx context.Context, txID uuid.UUID) (*wallet.WalletTransaction, error) {
	return m.tx(m.Called(ctx, txID))
}

func (m *MockWallets) MarkPaid(ctx context.Context, txID uuid.UUID, referenceID *string) (*wallet.WalletTransaction, error) {
	return m.tx(m.Called(ctx, txID, referenceID))
}

func (m *MockWallets) UpdateDetails(ctx context.Context, input appwallet.UpdateDetailsInput) (*wallet.WalletTransaction, error) {
	return m.tx(m.Called(ctx, input))
}

func (m *MockWallets) tx(args mock.Arguments) (*wallet.WalletTransaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.WalletTransaction), args.Error(1)
}

// MockIdentity implements Registrar and UserProfiles
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) RequestRegistrationOTP(ctx context.Context, email string) (*appidentity.OTPChallenge, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.OTPChallenge), args.Error(1)
}

func (m *MockIdentity) VerifyAndRegister(ctx context.Context, input appidentity.VerifyAndRegisterInput) (*identity.User, error) {
	return m.user(m.Called(ctx, input))
}

func (m *MockIdentity) GetUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *MockIdentity) UpdateBillingDetails(ctx context.Context, userID uuid.UUID, details identity.BillingDetails) (*identity.User, error) {
	return m.user(m.Called(ctx, userID, details))
}

func (m *MockIdentity) user(args mock.Arguments) (*identity.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

var (
	_ ViewRecorder         = (*MockLedger)(nil)
	_ AnalyticsQueries     = (*MockLedger)(nil)
	_ FileRegistry         = (*MockFiles)(nil)
	_ WalletReader         = (*MockWallets)(nil)
	_ Withdrawals          = (*MockWallets)(nil)
	_ WithdrawalOperations = (*MockWallets)(nil)
	_ BalanceAdjuster      = (*MockWallets)(nil)
	_ Registrar            = (*MockIdentity)(nil)
	_ UserProfiles         = (*MockIdentity)(nil)

	_ ViewRecorder         = (*appanalytics.LedgerService)(nil)
	_ AnalyticsQueries     = (*appanalytics.AggregationService)(nil)
	_ FileRegistry         = (*appanalytics.FileService)(nil)
	_ WalletReader         = (*appwallet.WalletService)(nil)
	_ BalanceAdjuster      = (*appwallet.WalletService)(nil)
	_ Withdrawals          = (*appwallet.WithdrawalService)(nil)
	_ WithdrawalOperations = (*appwallet.WithdrawalService)(nil)
	_ Registrar            = (*appidentity.RegistrationService)(nil)
	_ UserProfiles         = (*appidentity.UserService)(nil)
)
