package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	analyticsapp "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/scheduler"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// One viewer hits an original and its clone at the same time. Clone views
// write the clone, the viewer wallet and the original; plain views write the
// original and the viewer wallet. Both must finish without losing a credit.
func TestLedger_ConcurrentViewsOfOriginalAndClone(t *testing.T) {
	srv := NewLedgerServer(t)
	ctx := context.Background()
	rates := srv.Ledger.Rates()

	owner := srv.Register(t, "race-owner@example.com")
	cloner := srv.Register(t, "race-cloner@example.com")
	viewer := srv.Register(t, "race-viewer@example.com")

	original := srv.Upload(t, owner, "race.pdf")
	rec := srv.Client.Do(t, http.MethodPost, "/api/v1/files/"+original.ID.String()+"/clone", cloner.Token, nil)
	clone := testutil.Decode[dto.FileResponse](t, rec, http.StatusCreated).Data

	const n = 40
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < n; i++ {
		target := original.ID
		if i%2 == 1 {
			target = clone.ID
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := srv.Ledger.RecordView(ctx, analyticsapp.RecordViewInput{
				FileID:   target,
				ViewerID: viewer.ID,
				EventID:  fmt.Sprintf("race-%d", i),
			})
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	require.Empty(t, errs)

	half := decimal.NewFromInt(n / 2)
	day := analytics.DayOf(analytics.SystemClock())

	storedOriginal, err := srv.Files.FindByID(ctx, original.ID)
	require.NoError(t, err)
	storedClone, err := srv.Files.FindByID(ctx, clone.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), storedOriginal.TotalViews+storedClone.TotalViews)
	assert.Equal(t, int64(n/2), storedClone.TotalViews)
	assertAmount(t, rates.ReferralPerView.Mul(half).String(), storedOriginal.ReferralEarnings)

	var views int64
	earnings := decimal.Zero
	for _, key := range []analytics.EntryKey{
		{FileID: original.ID, UserID: viewer.ID, Day: day},
		{FileID: clone.ID, UserID: viewer.ID, Day: day},
	} {
		entry, err := srv.Entries.FindByKey(ctx, key)
		require.NoError(t, err)
		views += entry.Views
		earnings = earnings.Add(entry.Earnings)
	}
	assert.Equal(t, int64(n), views)
	assertAmount(t, rates.PerView.Mul(decimal.NewFromInt(n)).String(), earnings)

	viewerWallet, err := srv.Wallets.FindByUserID(ctx, viewer.ID)
	require.NoError(t, err)
	assertAmount(t, rates.PerView.Mul(decimal.NewFromInt(n)).String(), viewerWallet.Balances().Available)
	ownerWallet, err := srv.Wallets.FindByUserID(ctx, owner.ID)
	require.NoError(t, err)
	assertAmount(t, rates.ReferralPerView.Mul(half).String(), ownerWallet.Balances().Available)

	report, err := scheduler.NewConservationAudit(srv.Wallets, 50, nil, zap.NewNop()).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Mismatched)
	assert.GreaterOrEqual(t, report.Scanned, 3)
}
