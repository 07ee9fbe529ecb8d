package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)

// newTestDB opens a private shared-cache in-memory SQLite database with the
// ledger schema. One connection keeps savepoints and transactions on the
// same session.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := Open(sqlite.Open(dsn))
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate())
	return db.DB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedWallet creates a wallet for a new user and returns the user id
func seedWallet(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	w, err := wallet.NewWallet(userID, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormWalletRepository(db).Create(context.Background(), w))
	return userID
}

// fundWallet credits amount to the user's available bucket
func fundWallet(t *testing.T, db *gorm.DB, userID uuid.UUID, amount string) {
	t.Helper()
	tr, err := wallet.Credit(wallet.BucketAvailable, dec(amount))
	require.NoError(t, err)
	require.NoError(t, NewGormWalletRepository(db).Apply(context.Background(), userID, tr))
}

func seedFile(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *analytics.FileRecord {
	t.Helper()
	f, err := analytics.NewOriginalFile(ownerID, "report.pdf", "application/pdf", 2048, "files/report.pdf", testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormFileRepository(db).Create(context.Background(), f))
	return f
}

func seedClone(t *testing.T, db *gorm.DB, original *analytics.FileRecord, ownerID uuid.UUID) *analytics.FileRecord {
	t.Helper()
	c, err := original.Clone(ownerID, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormFileRepository(db).Create(context.Background(), c))
	return c
}

func testBilling() identity.BillingDetails {
	return identity.BillingDetails{AccountHolderName: "Asha Rao", UPIID: "asha@okbank"}
}

// assertAmount compares decimals at ledger scale; SQLite stores numerics as REAL
func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Equal(t, dec(want).StringFixed(wallet.Scale), got.Round(wallet.Scale).StringFixed(wallet.Scale))
}
