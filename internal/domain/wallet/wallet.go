package wallet

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places money is stored with
const Scale = 6

// Wallet holds a user's earnings split across the lifecycle buckets.
// Balances change only through Apply (in memory) or the repository's
// transition methods (in storage); there are no setters.
type Wallet struct {
	shared.BaseEntity
	UserID        uuid.UUID
	available     decimal.Decimal
	pending       decimal.Decimal
	approved      decimal.Decimal
	paid          decimal.Decimal
	cancelled     decimal.Decimal
	totalCredited decimal.Decimal
	totalDebited  decimal.Decimal
	Version       int
}

// NewWallet creates an empty wallet for userID
func NewWallet(userID uuid.UUID, now time.Time) (*Wallet, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "user is required")
	}
	return &Wallet{
		BaseEntity:    shared.NewBaseEntityAt(now),
		UserID:        userID,
		available:     decimal.Zero,
		pending:       decimal.Zero,
		approved:      decimal.Zero,
		paid:          decimal.Zero,
		cancelled:     decimal.Zero,
		totalCredited: decimal.Zero,
		totalDebited:  decimal.Zero,
		Version:       1,
	}, nil
}

// Balances is a snapshot of all wallet amounts used to rehydrate a wallet from storage
type Balances struct {
	Available     decimal.Decimal
	Pending       decimal.Decimal
	Approved      decimal.Decimal
	Paid          decimal.Decimal
	Cancelled     decimal.Decimal
	TotalCredited decimal.Decimal
	TotalDebited  decimal.Decimal
}

// Restore rebuilds a wallet from persisted state
func Restore(base shared.BaseEntity, userID uuid.UUID, b Balances, version int) *Wallet {
	return &Wallet{
		BaseEntity:    base,
		UserID:        userID,
		available:     b.Available,
		pending:       b.Pending,
		approved:      b.Approved,
		paid:          b.Paid,
		cancelled:     b.Cancelled,
		totalCredited: b.TotalCredited,
		totalDebited:  b.TotalDebited,
		Version:       version,
	}
}

// Balances returns a copy of all amounts
func (w *Wallet) Balances() Balances {
	return Balances{
		Available:     w.available,
		Pending:       w.pending,
		Approved:      w.approved,
		Paid:          w.paid,
		Cancelled:     w.cancelled,
		TotalCredited: w.totalCredited,
		TotalDebited:  w.totalDebited,
	}
}

// Balance returns the amount held in bucket
func (w *Wallet) Balance(b Bucket) decimal.Decimal {
	switch b {
	case BucketAvailable:
		return w.available
	case BucketPending:
		return w.pending
	case BucketApproved:
		return w.approved
	case BucketPaid:
		return w.paid
	case BucketCancelled:
		return w.cancelled
	}
	return decimal.Zero
}

// Available returns the withdrawable balance
func (w *Wallet) Available() decimal.Decimal { return w.available }

// Pending returns funds claimed by pending withdrawals
func (w *Wallet) Pending() decimal.Decimal { return w.pending }

// Approved returns funds of approved withdrawals awaiting payout
func (w *Wallet) Approved() decimal.Decimal { return w.approved }

// Paid returns funds paid out
func (w *Wallet) Paid() decimal.Decimal { return w.paid }

// Cancelled returns funds of cancelled withdrawals
func (w *Wallet) Cancelled() decimal.Decimal { return w.cancelled }

// Total returns the sum of the five buckets
func (w *Wallet) Total() decimal.Decimal {
	return w.available.Add(w.pending).Add(w.approved).Add(w.paid).Add(w.cancelled)
}

// Conserved reports whether the buckets add up to everything credited minus
// everything debited and no bucket is negative, compared at storage scale.
func (w *Wallet) Conserved() bool {
	for _, b := range AllBuckets {
		if w.Balance(b).Round(Scale).IsNegative() {
			return false
		}
	}
	return w.Total().Round(Scale).Equal(w.totalCredited.Sub(w.totalDebited).Round(Scale))
}

// Drift returns how far the buckets are from the credit/debit history
func (w *Wallet) Drift() decimal.Decimal {
	return w.Total().Sub(w.totalCredited.Sub(w.totalDebited)).Round(Scale)
}

// Apply performs the transition in memory
func (w *Wallet) Apply(t Transition, now time.Time) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.From != "" && w.Balance(t.From).LessThan(t.Amount) {
		return shared.NewDomainError(shared.CodeInsufficientFunds, "insufficient funds in "+t.From.String()+" balance")
	}
	if t.From != "" {
		w.set(t.From, w.Balance(t.From).Sub(t.Amount))
	}
	if t.To != "" {
		w.set(t.To, w.Balance(t.To).Add(t.Amount))
	}
	switch t.Operation {
	case OperationCredit:
		w.totalCredited = w.totalCredited.Add(t.Amount)
	case OperationDebit:
		w.totalDebited = w.totalDebited.Add(t.Amount)
	}
	w.Version++
	w.Touch(now)
	return nil
}

func (w *Wallet) set(b Bucket, v decimal.Decimal) {
	switch b {
	case BucketAvailable:
		w.available = v
	case BucketPending:
		w.pending = v
	case BucketApproved:
		w.approved = v
	case BucketPaid:
		w.paid = v
	case BucketCancelled:
		w.cancelled = v
	}
}
